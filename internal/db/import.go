package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/javiermolinar/bnapp/internal/event"
)

// Tree is the whole store as one JSON document:
// events/{dateKey}/{id}, goals/{owner}/{id} and days/{dateKey}/holiday.
type Tree struct {
	Events map[string]map[string]event.Event `json:"events,omitempty"`
	Goals  map[string]map[string]event.Goal  `json:"goals,omitempty"`
	Days   map[string]DayFlags               `json:"days,omitempty"`
}

// DayFlags holds the per-day flags.
type DayFlags struct {
	Holiday bool `json:"holiday"`
}

// Dump returns the full contents of the store.
func (s *SQLite) Dump(ctx context.Context) (*Tree, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	tree := &Tree{
		Events: make(map[string]map[string]event.Event),
		Goals:  make(map[string]map[string]event.Goal),
		Days:   make(map[string]DayFlags),
	}
	for _, ev := range snap.All() {
		if tree.Events[ev.DateKey] == nil {
			tree.Events[ev.DateKey] = make(map[string]event.Event)
		}
		tree.Events[ev.DateKey][ev.ID] = ev
	}
	for _, owner := range event.Owners {
		goals, err := s.Goals(ctx, owner)
		if err != nil {
			return nil, err
		}
		for _, g := range goals {
			if tree.Goals[string(owner)] == nil {
				tree.Goals[string(owner)] = make(map[string]event.Goal)
			}
			tree.Goals[string(owner)][g.ID] = g
		}
	}
	holidays, err := s.Holidays(ctx)
	if err != nil {
		return nil, err
	}
	for dk := range holidays {
		tree.Days[dk] = DayFlags{Holiday: true}
	}
	return tree, nil
}

// ReadTree decodes a JSON store dump.
func ReadTree(r io.Reader) (*Tree, error) {
	var tree Tree
	if err := json.NewDecoder(r).Decode(&tree); err != nil {
		return nil, fmt.Errorf("decoding dump: %w", err)
	}
	return &tree, nil
}

// ImportTree writes every record of tree in one transaction, keeping ids.
// Existing records with the same path are replaced. It returns the number of
// events written.
func (s *SQLite) ImportTree(ctx context.Context, tree *Tree) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	imported := 0
	for _, dk := range slices.Sorted(maps.Keys(tree.Events)) {
		for id, ev := range tree.Events[dk] {
			ev.DateKey, ev.ID = dk, id
			if err := putEvent(ctx, tx, ev); err != nil {
				return 0, err
			}
			imported++
		}
	}
	for owner, goals := range tree.Goals {
		for id, g := range goals {
			g.Owner, g.ID = event.Owner(owner), id
			if err := putGoal(ctx, tx, g); err != nil {
				return 0, err
			}
		}
	}
	for dk, flags := range tree.Days {
		if err := putDay(ctx, tx, dk, flags.Holiday); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	s.publish(ctx)
	return imported, nil
}

// Import copies every record from another bnapp database.
func (s *SQLite) Import(ctx context.Context, sourcePath string) (int, error) {
	source, err := New(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	tree, err := source.Dump(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading source database: %w", err)
	}
	return s.ImportTree(ctx, tree)
}
