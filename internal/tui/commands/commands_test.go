package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/apply"
	"github.com/javiermolinar/bnapp/internal/event"
)

type fakeStore struct {
	holidays map[string]bool
	err      error
	writes   []string
}

func (f *fakeStore) Holiday(_ context.Context, dateKey string) (bool, error) {
	return f.holidays[dateKey], f.err
}

func (f *fakeStore) Snapshot(context.Context) (*event.Snapshot, error) {
	return event.FromEvents(), nil
}

func (f *fakeStore) Goals(context.Context, event.Owner) ([]event.Goal, error) {
	return nil, nil
}

func (f *fakeStore) Set(_ context.Context, path string, _ any) error {
	f.writes = append(f.writes, "set "+path)
	return f.err
}

func (f *fakeStore) Update(_ context.Context, path string, _ event.Fields) error {
	f.writes = append(f.writes, "update "+path)
	return f.err
}

func (f *fakeStore) Remove(_ context.Context, path string) error {
	f.writes = append(f.writes, "remove "+path)
	return f.err
}

func TestWaitForSnapshot(t *testing.T) {
	sub := make(chan *event.Snapshot, 1)
	snap := event.FromEvents(event.Event{ID: "a", DateKey: "2024-03-10", Title: "Dentist"})
	sub <- snap

	msg := WaitForSnapshot(sub)()
	got, ok := msg.(SnapshotMsg)
	if !ok {
		t.Fatalf("expected SnapshotMsg, got %T", msg)
	}
	if got.Snap != snap {
		t.Fatal("expected the delivered snapshot")
	}

	close(sub)
	if _, ok := WaitForSnapshot(sub)().(SubscriptionClosedMsg); !ok {
		t.Fatal("expected SubscriptionClosedMsg on a closed channel")
	}
}

func TestLoadHoliday(t *testing.T) {
	store := &fakeStore{holidays: map[string]bool{"2024-04-23": true}}

	msg := LoadHoliday(store, "2024-04-23")()
	got, ok := msg.(HolidayMsg)
	if !ok {
		t.Fatalf("expected HolidayMsg, got %T", msg)
	}
	if !got.Holiday || got.DateKey != "2024-04-23" {
		t.Fatalf("unexpected holiday message %+v", got)
	}

	store.err = errors.New("disk gone")
	if _, ok := LoadHoliday(store, "2024-04-23")().(ErrMsg); !ok {
		t.Fatal("expected ErrMsg when the store fails")
	}
}

func TestApply(t *testing.T) {
	store := &fakeStore{}
	runner := apply.NewRunner(store, zerolog.Nop())
	ev := event.Event{ID: "a", DateKey: "2024-03-10"}

	msg := Apply(runner, []event.Command{event.CompleteCommand(ev, true, 1)}, "Done")()
	got, ok := msg.(AppliedMsg)
	if !ok {
		t.Fatalf("expected AppliedMsg, got %T", msg)
	}
	if got.Status != "Done" || got.Report.Failed() != 0 {
		t.Fatalf("unexpected report %+v", got)
	}
	if len(store.writes) != 1 || store.writes[0] != "update events/2024-03-10/a" {
		t.Fatalf("unexpected writes %v", store.writes)
	}
}
