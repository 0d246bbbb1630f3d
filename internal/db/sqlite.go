// Package db provides the SQLite event store.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/bnapp/internal/event"
)

var (
	// ErrInvalidPath is returned for a path outside the known collections.
	ErrInvalidPath = errors.New("invalid store path")

	// ErrInvalidValue is returned when a value does not fit its collection.
	ErrInvalidValue = errors.New("invalid value for path")
)

// SQLite implements event.Store using SQLite. Records are stored as JSON
// documents keyed by their path.
type SQLite struct {
	db *sql.DB

	mu     sync.Mutex
	subs   map[int]chan *event.Snapshot
	nextID int
	closed bool
}

var _ event.Store = (*SQLite)(nil)

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Fire-and-forget writers share one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, subs: make(map[int]chan *event.Snapshot)}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// NewID returns a time-ordered UUIDv7.
func (s *SQLite) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Snapshot returns every event record.
func (s *SQLite) Snapshot(ctx context.Context) (*event.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date_key, id, data FROM events`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	days := make(map[string]map[string]event.Event)
	for rows.Next() {
		var dateKey, id, data string
		if err := rows.Scan(&dateKey, &id, &data); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		var ev event.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return nil, fmt.Errorf("decoding event %s/%s: %w", dateKey, id, err)
		}
		if days[dateKey] == nil {
			days[dateKey] = make(map[string]event.Event)
		}
		days[dateKey][id] = ev
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return event.NewSnapshot(days), nil
}

// Goals returns the goals of owner ordered by id.
func (s *SQLite) Goals(ctx context.Context, owner event.Owner) ([]event.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM goals WHERE owner = ? ORDER BY id`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []event.Goal
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		var g event.Goal
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, fmt.Errorf("decoding goal %s: %w", id, err)
		}
		g.ID = id
		g.Owner = owner
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}
	return goals, nil
}

// Holiday reports whether dateKey is marked as a holiday.
func (s *SQLite) Holiday(ctx context.Context, dateKey string) (bool, error) {
	var holiday bool
	err := s.db.QueryRowContext(ctx, `SELECT holiday FROM days WHERE date_key = ?`, dateKey).Scan(&holiday)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying day: %w", err)
	}
	return holiday, nil
}

// Holidays returns every date marked as a holiday.
func (s *SQLite) Holidays(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date_key FROM days WHERE holiday = 1`)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]bool)
	for rows.Next() {
		var dk string
		if err := rows.Scan(&dk); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		out[dk] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating days: %w", err)
	}
	return out, nil
}

// Push writes ev under dateKey with a fresh id and returns the id.
func (s *SQLite) Push(ctx context.Context, dateKey string, ev event.Event) (string, error) {
	ev.ID = s.NewID()
	ev.DateKey = dateKey
	if err := s.Set(ctx, ev.Path(), ev); err != nil {
		return "", err
	}
	return ev.ID, nil
}

// Set replaces the record at path.
func (s *SQLite) Set(ctx context.Context, path string, value any) error {
	collection, key, id, ok := event.ParsePath(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	var err error
	switch collection {
	case event.CollectionEvents:
		ev, ok := asEvent(value)
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidValue, path)
		}
		ev.DateKey, ev.ID = key, id
		err = putEvent(ctx, s.db, ev)
	case event.CollectionGoals:
		g, ok := asGoal(value)
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidValue, path)
		}
		g.Owner, g.ID = event.Owner(key), id
		err = putGoal(ctx, s.db, g)
	case event.CollectionDays:
		holiday, ok := value.(bool)
		if !ok || id != "holiday" {
			return fmt.Errorf("%w: %s", ErrInvalidValue, path)
		}
		err = putDay(ctx, s.db, key, holiday)
	}
	if err != nil {
		return err
	}

	s.publish(ctx)
	return nil
}

// Update merges fields into the record at path, creating it when missing.
func (s *SQLite) Update(ctx context.Context, path string, fields event.Fields) error {
	collection, key, id, ok := event.ParsePath(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	switch collection {
	case event.CollectionEvents:
		ev := event.Event{ID: id, DateKey: key}
		var data string
		err := tx.QueryRowContext(ctx, `SELECT data FROM events WHERE date_key = ? AND id = ?`, key, id).Scan(&data)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("querying event: %w", err)
		default:
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				return fmt.Errorf("decoding event %s: %w", path, err)
			}
		}
		ev, err = ev.Merge(fields)
		if err != nil {
			return fmt.Errorf("merging event %s: %w", path, err)
		}
		ev.DateKey, ev.ID = key, id
		if err := putEvent(ctx, tx, ev); err != nil {
			return err
		}
	case event.CollectionGoals:
		g := event.Goal{ID: id, Owner: event.Owner(key)}
		var data string
		err := tx.QueryRowContext(ctx, `SELECT data FROM goals WHERE owner = ? AND id = ?`, key, id).Scan(&data)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("querying goal: %w", err)
		default:
			if err := json.Unmarshal([]byte(data), &g); err != nil {
				return fmt.Errorf("decoding goal %s: %w", path, err)
			}
		}
		g, err = mergeGoal(g, fields)
		if err != nil {
			return fmt.Errorf("merging goal %s: %w", path, err)
		}
		g.Owner, g.ID = event.Owner(key), id
		if err := putGoal(ctx, tx, g); err != nil {
			return err
		}
	case event.CollectionDays:
		holiday, ok := fields["holiday"].(bool)
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidValue, path)
		}
		if err := putDay(ctx, tx, key, holiday); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.publish(ctx)
	return nil
}

// Remove deletes the record at path. Removing a missing record is not an error.
func (s *SQLite) Remove(ctx context.Context, path string) error {
	collection, key, id, ok := event.ParsePath(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}

	var (
		query string
		args  []any
	)
	switch collection {
	case event.CollectionEvents:
		query, args = `DELETE FROM events WHERE date_key = ? AND id = ?`, []any{key, id}
	case event.CollectionGoals:
		query, args = `DELETE FROM goals WHERE owner = ? AND id = ?`, []any{key, id}
	case event.CollectionDays:
		query, args = `DELETE FROM days WHERE date_key = ?`, []any{key}
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	s.publish(ctx)
	return nil
}

// Setting returns a stored setting and whether it exists.
func (s *SQLite) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting: %w", err)
	}
	return value, true, nil
}

// SetSetting stores a setting.
func (s *SQLite) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("storing setting: %w", err)
	}
	return nil
}

// Close releases database resources and ends every subscription.
func (s *SQLite) Close() error {
	s.mu.Lock()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()
	return s.db.Close()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putEvent(ctx context.Context, ex execer, ev event.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO events (date_key, id, owner, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(date_key, id) DO UPDATE SET
			owner = excluded.owner,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, ev.DateKey, ev.ID, string(ev.Owner), string(data))
	if err != nil {
		return fmt.Errorf("writing event %s: %w", ev.Path(), err)
	}
	return nil
}

func putGoal(ctx context.Context, ex execer, g event.Goal) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding goal: %w", err)
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO goals (owner, id, data) VALUES (?, ?, ?)
		ON CONFLICT(owner, id) DO UPDATE SET data = excluded.data
	`, string(g.Owner), g.ID, string(data))
	if err != nil {
		return fmt.Errorf("writing goal %s: %w", g.ID, err)
	}
	return nil
}

func putDay(ctx context.Context, ex execer, dateKey string, holiday bool) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO days (date_key, holiday) VALUES (?, ?)
		ON CONFLICT(date_key) DO UPDATE SET holiday = excluded.holiday
	`, dateKey, holiday)
	if err != nil {
		return fmt.Errorf("writing day %s: %w", dateKey, err)
	}
	return nil
}

func asEvent(v any) (event.Event, bool) {
	switch ev := v.(type) {
	case event.Event:
		return ev, true
	case *event.Event:
		if ev == nil {
			return event.Event{}, false
		}
		return *ev, true
	default:
		return event.Event{}, false
	}
}

func asGoal(v any) (event.Goal, bool) {
	switch g := v.(type) {
	case event.Goal:
		return g, true
	case *event.Goal:
		if g == nil {
			return event.Goal{}, false
		}
		return *g, true
	default:
		return event.Goal{}, false
	}
}

// mergeGoal overlays fields onto the JSON form of g. Nil values clear a field.
func mergeGoal(g event.Goal, fields event.Fields) (event.Goal, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return g, err
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return g, err
	}
	for k, v := range fields {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	raw, err = json.Marshal(doc)
	if err != nil {
		return g, err
	}
	var out event.Goal
	if err := json.Unmarshal(raw, &out); err != nil {
		return g, err
	}
	return out, nil
}
