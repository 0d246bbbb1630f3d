package event

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Op is the kind of write a Command performs.
type Op string

const (
	OpSet    Op = "set"    // replace the record at Path
	OpUpdate Op = "update" // merge Fields into the record at Path
	OpRemove Op = "remove" // delete the record at Path
)

// Store collections.
const (
	CollectionEvents = "events"
	CollectionGoals  = "goals"
	CollectionDays   = "days"
)

// Fields is a partial record keyed by JSON field name.
type Fields map[string]any

// Command is a write effect produced by a core computation. Core code never
// writes; callers hand commands to a runner that executes them against the
// store.
type Command struct {
	Op     Op
	Path   string
	Record *Event // OpSet on an events path
	Goal   *Goal  // OpSet on a goals path
	Fields Fields // OpUpdate
}

// String renders the command for logs.
func (c Command) String() string {
	return fmt.Sprintf("%s %s", c.Op, c.Path)
}

// EventPath returns the store path of an event record.
func EventPath(dateKey, id string) string {
	return CollectionEvents + "/" + dateKey + "/" + id
}

// GoalPath returns the store path of a goal record.
func GoalPath(owner Owner, id string) string {
	return CollectionGoals + "/" + string(owner) + "/" + id
}

// HolidayPath returns the store path of a day's holiday flag.
func HolidayPath(dateKey string) string {
	return CollectionDays + "/" + dateKey + "/holiday"
}

// ParsePath splits a store path into collection, parent key and id.
func ParsePath(path string) (collection, key, id string, ok bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	switch parts[0] {
	case CollectionEvents, CollectionGoals, CollectionDays:
		return parts[0], parts[1], parts[2], true
	default:
		return "", "", "", false
	}
}

// SetEvent returns a command writing ev at its own path.
func SetEvent(ev Event) Command {
	rec := ev
	return Command{Op: OpSet, Path: ev.Path(), Record: &rec}
}

// UpdateEvent returns a command merging fields into the record at dateKey/id.
func UpdateEvent(dateKey, id string, fields Fields) Command {
	return Command{Op: OpUpdate, Path: EventPath(dateKey, id), Fields: fields}
}

// RemoveEvent returns a command deleting the record at dateKey/id.
func RemoveEvent(dateKey, id string) Command {
	return Command{Op: OpRemove, Path: EventPath(dateKey, id)}
}

// MoveCommands relocates ev to newDateKey and optional new times. The record
// keeps its id; the old record is removed when the date changes.
func MoveCommands(ev Event, newDateKey, start, end string) []Command {
	moved := ev
	moved.DateKey = newDateKey
	if start != "" {
		moved.StartTime = start
	}
	if end != "" {
		moved.EndTime = end
	}
	cmds := []Command{SetEvent(moved)}
	if newDateKey != ev.DateKey {
		cmds = append(cmds, RemoveEvent(ev.DateKey, ev.ID))
	}
	return cmds
}

// CompleteCommand toggles the completion flag of a record. at is epoch ms.
func CompleteCommand(ev Event, done bool, at int64) Command {
	fields := Fields{"completed": done, "completedAt": nil}
	if done {
		fields["completedAt"] = at
	}
	return UpdateEvent(ev.DateKey, ev.ID, fields)
}

// Merge returns a copy of e with fields overlaid. Nil values clear a field.
// Unknown keys are ignored. A value of the wrong type fails the whole merge
// with ErrInvalidFields and leaves e unchanged.
func (e Event) Merge(fields Fields) (Event, error) {
	if len(fields) == 0 {
		return e, nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("encoding event %s: %w", e.ID, err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return e, fmt.Errorf("decoding event %s: %w", e.ID, err)
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
		return e, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	var out Event
	if err := json.Unmarshal(raw, &out); err != nil {
		return e, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}
	return out, nil
}

// SetHoliday returns a command marking or clearing dateKey as a holiday.
func SetHoliday(dateKey string, holiday bool) Command {
	return Command{Op: OpUpdate, Path: HolidayPath(dateKey), Fields: Fields{"holiday": holiday}}
}
