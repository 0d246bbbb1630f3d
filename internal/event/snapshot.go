package event

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/javiermolinar/bnapp/internal/dateutil"
)

// Snapshot is an immutable view of the event store: dateKey -> id -> Event.
// All core computations take a Snapshot explicitly; derived snapshots are
// built with With and Without and never alias the receiver's maps.
type Snapshot struct {
	days map[string]map[string]Event
}

// NewSnapshot copies days into a new Snapshot. Record ids and date keys
// are taken from the map keys.
func NewSnapshot(days map[string]map[string]Event) *Snapshot {
	s := &Snapshot{days: make(map[string]map[string]Event, len(days))}
	for dk, day := range days {
		if len(day) == 0 {
			continue
		}
		cp := make(map[string]Event, len(day))
		for id, ev := range day {
			ev.ID = id
			ev.DateKey = dk
			cp[id] = ev
		}
		s.days[dk] = cp
	}
	return s
}

// FromEvents builds a Snapshot from a flat list of records.
func FromEvents(events ...Event) *Snapshot {
	days := make(map[string]map[string]Event)
	for _, ev := range events {
		dk := ev.DateKey
		if dk == "" {
			dk = dateutil.Undated
		}
		if days[dk] == nil {
			days[dk] = make(map[string]Event)
		}
		days[dk][ev.ID] = ev
	}
	return NewSnapshot(days)
}

// Day returns the records stored under dateKey in ascending id order.
func (s *Snapshot) Day(dateKey string) []Event {
	if s == nil {
		return nil
	}
	day := s.days[dateKey]
	ids := slices.Sorted(maps.Keys(day))
	out := make([]Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, day[id])
	}
	return out
}

// Get returns the record stored at dateKey/id.
func (s *Snapshot) Get(dateKey, id string) (Event, bool) {
	if s == nil {
		return Event{}, false
	}
	ev, ok := s.days[dateKey][id]
	return ev, ok
}

// Find looks a record up by id across all days.
func (s *Snapshot) Find(id string) (Event, bool) {
	if s == nil {
		return Event{}, false
	}
	for _, day := range s.days {
		if ev, ok := day[id]; ok {
			return ev, true
		}
	}
	return Event{}, false
}

// DateKeys returns every date key present, sorted. The undated bucket
// sorts after all concrete dates.
func (s *Snapshot) DateKeys() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.days))
}

// All returns every record ordered by date key, then id.
func (s *Snapshot) All() []Event {
	var out []Event
	for _, dk := range s.DateKeys() {
		out = append(out, s.Day(dk)...)
	}
	return out
}

// Undated returns the records without a concrete date.
func (s *Snapshot) Undated() []Event {
	return s.Day(dateutil.Undated)
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, day := range s.days {
		n += len(day)
	}
	return n
}

// With returns a new snapshot with the given records set at their
// DateKey/ID, replacing records already stored there.
func (s *Snapshot) With(events ...Event) *Snapshot {
	next := s.clone()
	for _, ev := range events {
		dk := ev.DateKey
		if dk == "" {
			dk = dateutil.Undated
			ev.DateKey = dk
		}
		if next.days[dk] == nil {
			next.days[dk] = make(map[string]Event)
		}
		next.days[dk][ev.ID] = ev
	}
	return next
}

// Without returns a new snapshot with the record at dateKey/id removed.
func (s *Snapshot) Without(dateKey, id string) *Snapshot {
	next := s.clone()
	if day, ok := next.days[dateKey]; ok {
		delete(day, id)
		if len(day) == 0 {
			delete(next.days, dateKey)
		}
	}
	return next
}

// Apply returns the snapshot that results from executing cmds against s.
// An update whose fields cannot be merged is skipped; the skipped commands
// are reported in the joined error while the rest still apply.
func (s *Snapshot) Apply(cmds []Command) (*Snapshot, error) {
	next := s
	var errs []error
	for _, c := range cmds {
		kind, dk, id, ok := ParsePath(c.Path)
		if !ok || kind != CollectionEvents {
			continue
		}
		switch c.Op {
		case OpSet:
			if c.Record == nil {
				continue
			}
			ev := *c.Record
			ev.DateKey, ev.ID = dk, id
			next = next.With(ev)
		case OpUpdate:
			ev, found := next.Get(dk, id)
			if !found {
				ev = Event{ID: id, DateKey: dk}
			}
			merged, err := ev.Merge(c.Fields)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c, err))
				continue
			}
			next = next.With(merged)
		case OpRemove:
			next = next.Without(dk, id)
		}
	}
	return next, errors.Join(errs...)
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{days: make(map[string]map[string]Event)}
	if s == nil {
		return next
	}
	for dk, day := range s.days {
		next.days[dk] = maps.Clone(day)
	}
	return next
}
