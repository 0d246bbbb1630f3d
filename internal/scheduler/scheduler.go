// Package scheduler computes a day's busy time and free slots and places
// undated tasks into them.
package scheduler

import (
	"slices"

	"github.com/javiermolinar/bnapp/internal/event"
)

// Default working window and minimum free slot width.
const (
	DefaultDayStart    = "08:00"
	DefaultDayEnd      = "22:00"
	DefaultMinFreeSlot = 30
)

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Minutes returns the width of the interval.
func (i Interval) Minutes() int {
	return i.End - i.Start
}

// StartTime formats the start as "HH:MM".
func (i Interval) StartTime() string {
	return event.MinutesToTime(i.Start)
}

// EndTime formats the end as "HH:MM".
func (i Interval) EndTime() string {
	return event.MinutesToTime(i.End)
}

func (i Interval) String() string {
	return i.StartTime() + "-" + i.EndTime()
}

// Load is the busy/free breakdown of one day for one viewer.
type Load struct {
	DateKey          string
	TotalBusyMinutes int
	Busy             []Interval
	FreeSlots        []Interval
}

// Scheduler holds the working window used to look for free time.
type Scheduler struct {
	dayStart int
	dayEnd   int
	minFree  int
}

// New creates a Scheduler. Unparseable window bounds fall back to the
// defaults; a non-positive minFree falls back to DefaultMinFreeSlot.
func New(dayStart, dayEnd string, minFree int) *Scheduler {
	start, ok := event.TimeToMinutes(dayStart)
	if !ok {
		start, _ = event.TimeToMinutes(DefaultDayStart)
	}
	end, ok := event.TimeToMinutes(dayEnd)
	if !ok || end <= start {
		end, _ = event.TimeToMinutes(DefaultDayEnd)
	}
	if minFree <= 0 {
		minFree = DefaultMinFreeSlot
	}
	return &Scheduler{dayStart: start, dayEnd: end, minFree: minFree}
}

// Default returns a Scheduler with the default window.
func Default() *Scheduler {
	return New(DefaultDayStart, DefaultDayEnd, DefaultMinFreeSlot)
}

// DayStart returns the configured day start time.
func (s *Scheduler) DayStart() string {
	return event.MinutesToTime(s.dayStart)
}

// DayEnd returns the configured day end time.
func (s *Scheduler) DayEnd() string {
	return event.MinutesToTime(s.dayEnd)
}

// MinFree returns the minimum width of a reported free slot.
func (s *Scheduler) MinFree() int {
	return s.minFree
}

// DayLoad computes the merged busy time and the free slots of dateKey as
// seen by user. An event counts when it belongs to user or is shared; a
// shared viewer sees every event. Events without both times are ignored.
func (s *Scheduler) DayLoad(snap *event.Snapshot, dateKey string, user event.Owner) Load {
	var intervals []Interval
	for _, ev := range snap.Day(dateKey) {
		if !event.Relevant(ev.Owner, user) {
			continue
		}
		start, ok1 := event.TimeToMinutes(ev.StartTime)
		end, ok2 := event.TimeToMinutes(ev.EndTime)
		if !ok1 || !ok2 || end <= start {
			continue
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}

	busy := MergeIntervals(intervals)
	total := 0
	for _, iv := range busy {
		total += iv.Minutes()
	}

	return Load{
		DateKey:          dateKey,
		TotalBusyMinutes: total,
		Busy:             busy,
		FreeSlots:        FreeSlots(busy, s.dayStart, s.dayEnd, s.minFree),
	}
}

// MergeIntervals sorts intervals by start and merges every pair where the
// next one starts at or before the current end. Touching intervals merge.
// The input is not modified.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b Interval) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})

	merged := []Interval{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if next.Start <= cur.End {
			cur.End = max(cur.End, next.End)
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// FreeSlots returns the gaps of width >= minWidth between the merged busy
// intervals inside [dayStart, dayEnd), including the gap before the first
// and after the last busy interval.
func FreeSlots(busy []Interval, dayStart, dayEnd, minWidth int) []Interval {
	var free []Interval
	cursor := dayStart
	for _, iv := range busy {
		if iv.End <= cursor {
			continue
		}
		if iv.Start >= dayEnd {
			break
		}
		if iv.Start-cursor >= minWidth {
			free = append(free, Interval{Start: cursor, End: iv.Start})
		}
		cursor = max(cursor, iv.End)
	}
	if dayEnd-cursor >= minWidth {
		free = append(free, Interval{Start: cursor, End: dayEnd})
	}
	return free
}

// FirstFit returns the first free slot that can hold duration minutes.
func FirstFit(free []Interval, duration int) (Interval, bool) {
	for _, slot := range free {
		if slot.Minutes() >= duration {
			return slot, true
		}
	}
	return Interval{}, false
}

// NextFreeFrom returns the first free slot of load that still has at least
// the minimum width after now (minutes since midnight). The slot is clipped
// to start at now rounded up to the next quarter hour.
func (s *Scheduler) NextFreeFrom(load Load, now int) (Interval, bool) {
	start := roundUpToQuarter(now)
	for _, slot := range load.FreeSlots {
		if slot.End <= start {
			continue
		}
		clipped := Interval{Start: max(slot.Start, start), End: slot.End}
		if clipped.Minutes() >= s.minFree {
			return clipped, true
		}
	}
	return Interval{}, false
}

// roundUpToQuarter rounds minutes up to the next 15-minute boundary.
func roundUpToQuarter(m int) int {
	if r := m % 15; r != 0 {
		return m + 15 - r
	}
	return m
}
