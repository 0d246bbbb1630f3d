package event

import "context"

// Reader loads the current state of the event store.
type Reader interface {
	// Snapshot returns the full current state.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Goals returns the goals of owner.
	Goals(ctx context.Context, owner Owner) ([]Goal, error)

	// Holiday reports whether dateKey is marked as a holiday.
	Holiday(ctx context.Context, dateKey string) (bool, error)
}

// Writer executes path-addressed writes. Last write wins.
type Writer interface {
	// Set replaces the record at path. value is an Event, a Goal or a bool
	// holiday flag depending on the collection.
	Set(ctx context.Context, path string, value any) error

	// Update merges fields into the record at path, creating it if missing.
	Update(ctx context.Context, path string, fields Fields) error

	// Remove deletes the record at path. Removing a missing record is not an error.
	Remove(ctx context.Context, path string) error
}

// Store is the event store used by the application.
type Store interface {
	Reader
	Writer

	// Subscribe delivers the current snapshot and then a fresh full snapshot
	// after every write, until ctx is done.
	Subscribe(ctx context.Context) <-chan *Snapshot

	// NewID returns a fresh record id. Ids sort by creation time.
	NewID() string

	// Close releases any resources held by the store.
	Close() error
}
