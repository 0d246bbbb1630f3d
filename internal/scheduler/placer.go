package scheduler

import (
	"errors"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// ErrNoSlot is reported for a task that fits nowhere within its horizon.
// It is a normal placement outcome, not a failure of the run.
var ErrNoSlot = errors.New("no free slot within horizon")

// DefaultTaskDuration is used for undated tasks without a duration.
const DefaultTaskDuration = 30

// Horizon returns how many days past today an undated task may be placed.
func Horizon(u event.Urgency) int {
	switch u {
	case event.UrgencyToday:
		return 0
	case event.UrgencyWeek:
		return 7
	case event.UrgencyMonth:
		return 14
	default:
		return 14
	}
}

// Placement is the outcome for one undated task.
type Placement struct {
	Task     event.Event
	DateKey  string
	Slot     Interval
	Commands []event.Command
	Err      error
}

// Placed returns true if the task found a slot.
func (p Placement) Placed() bool {
	return p.Err == nil
}

// PlaceUndated puts every open undated task into the first free slot that
// fits it, walking days from today up to the task's horizon.
//
// Tasks are processed in ascending id order. A placed task moves: the
// commands write it under the new date with the same id and remove the
// undated record. Later tasks in the same run see earlier placements.
func (s *Scheduler) PlaceUndated(snap *event.Snapshot, today string) []Placement {
	var out []Placement
	working := snap
	for _, task := range snap.Undated() {
		if !task.IsTask() || task.Completed {
			continue
		}
		p := s.placeOne(working, task, today)
		if p.Placed() {
			// Placements are sets and removes, which always apply.
			working, _ = working.Apply(p.Commands)
		}
		out = append(out, p)
	}
	return out
}

func (s *Scheduler) placeOne(snap *event.Snapshot, task event.Event, today string) Placement {
	duration := task.Duration
	if duration <= 0 {
		duration = DefaultTaskDuration
	}

	for d := 0; d <= Horizon(task.Urgency); d++ {
		dk := dateutil.AddDays(today, d)
		load := s.DayLoad(snap, dk, task.Owner)
		slot, ok := FirstFit(load.FreeSlots, duration)
		if !ok {
			continue
		}
		slot.End = slot.Start + duration
		return Placement{
			Task:     task,
			DateKey:  dk,
			Slot:     slot,
			Commands: event.MoveCommands(task, dk, slot.StartTime(), slot.EndTime()),
		}
	}
	return Placement{Task: task, Err: ErrNoSlot}
}
