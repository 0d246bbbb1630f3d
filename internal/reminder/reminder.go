// Package reminder finds events whose reminder is due and delivers them.
package reminder

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// Reminder is one due notification.
type Reminder struct {
	Event event.Event
	At    time.Time
}

// Title is the notification heading.
func (r Reminder) Title() string {
	return "BNAPP reminder"
}

// Body is the notification text.
func (r Reminder) Body() string {
	body := fmt.Sprintf("%s at %s", r.Event.Title, r.Event.StartTime)
	if r.Event.Address != "" {
		body += " (" + r.Event.Address + ")"
	}
	return body
}

// Tag identifies the notification so repeated deliveries collapse.
func (r Reminder) Tag() string {
	return "bnapp-" + r.Event.DateKey + "-" + r.Event.ID
}

// RemindAt returns the instant ev's reminder fires: its start on its date in
// loc, minus the lead time. It reports false when ev has no date, no start
// time, or no positive lead time.
func RemindAt(ev event.Event, loc *time.Location) (time.Time, bool) {
	if ev.ReminderMinutes <= 0 || ev.IsUndated() {
		return time.Time{}, false
	}
	start, ok := event.TimeToMinutes(ev.StartTime)
	if !ok {
		return time.Time{}, false
	}
	day, err := dateutil.ParseDate(ev.DateKey)
	if err != nil {
		return time.Time{}, false
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), start/60, start%60, 0, 0, loc)
	return at.Add(-time.Duration(ev.ReminderMinutes) * time.Minute), true
}

// Due returns the reminders on dateKeys that fire in [now-lookback, now+window)
// and have not been delivered. Completed events are skipped. The result is
// ordered by firing time.
func Due(snap *event.Snapshot, dateKeys []string, now time.Time, lookback, window time.Duration, loc *time.Location) []Reminder {
	from := now.Add(-lookback)
	to := now.Add(window)

	var out []Reminder
	for _, dk := range dateKeys {
		for _, ev := range snap.Day(dk) {
			if ev.Completed || ev.RemindedAt != 0 {
				continue
			}
			at, ok := RemindAt(ev, loc)
			if !ok || at.Before(from) || !at.Before(to) {
				continue
			}
			out = append(out, Reminder{Event: ev, At: at})
		}
	}
	slices.SortFunc(out, func(a, b Reminder) int {
		if c := a.At.Compare(b.At); c != 0 {
			return c
		}
		return cmp.Compare(a.Event.ID, b.Event.ID)
	})
	return out
}
