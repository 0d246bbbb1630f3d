package tui

import (
	"strings"

	"github.com/javiermolinar/bnapp/internal/event"
)

const quickAddDuration = 60

// parseQuickAdd reads "[HH:MM[-HH:MM]] title". A time makes an event; a
// start without an end lasts an hour, capped at
// the end of the day. Without a time the record is a task.
func parseQuickAdd(text, dateKey string, owner event.Owner) (event.Event, error) {
	ev := event.Event{
		Kind:      event.KindTask,
		Owner:     owner,
		DateKey:   dateKey,
		Recurring: event.RecurNone,
	}

	first, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	start, end, hasEnd := strings.Cut(first, "-")
	startMin, ok := event.TimeToMinutes(start)
	if !ok {
		ev.Title = strings.TrimSpace(text)
		if ev.Title == "" {
			return event.Event{}, event.ErrEmptyTitle
		}
		return event.Normalize(ev), nil
	}

	endMin := startMin + quickAddDuration
	if hasEnd {
		var ok bool
		if endMin, ok = event.TimeToMinutes(end); !ok {
			return event.Event{}, event.ErrInvalidTimeFormat
		}
	}
	ev.Kind = event.KindEvent
	ev.Title = strings.TrimSpace(rest)
	ev.StartTime = event.MinutesToTime(startMin)
	ev.EndTime = event.MinutesToTime(endMin)
	if ev.Title == "" {
		return event.Event{}, event.ErrEmptyTitle
	}
	return event.Normalize(ev), nil
}
