// Package recurrence materializes recurring templates into concrete
// per-day instances and plans cascade deletes of a series.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// ErrNotTemplate is returned when expanding a record that is not the
// parent of a series.
var ErrNotTemplate = errors.New("event is not a recurring template")

// InstanceID returns the id of the instance of templateID on dateKey.
// Re-expanding a template writes the same ids, so instances are
// overwritten rather than duplicated.
func InstanceID(templateID, dateKey string) string {
	return templateID + "_" + dateKey
}

// Horizon returns the expansion window of a template anchored on anchor:
// [anchor, anchor + 1 year).
func Horizon(anchor time.Time) (start, end time.Time) {
	return anchor, anchor.AddDate(1, 0, 0)
}

// Dates returns the date keys on which the template recurs within its
// horizon, the anchor date included.
//
// Weekly repeats on the anchor's weekday. Monthly repeats on the anchor's
// day of month and skips months that lack it. Yearly yields the single
// anniversary inside the horizon, which is the anchor itself.
func Dates(template event.Event) ([]string, error) {
	anchor, err := time.Parse(dateutil.KeyLayout, template.DateKey)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", template.ID, dateutil.ErrInvalidDateFormat)
	}

	opt := rrule.ROption{Dtstart: anchor}
	switch template.Recurrence() {
	case event.RecurWeekly:
		opt.Freq = rrule.WEEKLY
	case event.RecurMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{anchor.Day()}
	case event.RecurYearly:
		opt.Freq = rrule.YEARLY
		opt.Bymonth = []int{int(anchor.Month())}
		opt.Bymonthday = []int{anchor.Day()}
	default:
		return nil, nil
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("building rule for %s: %w", template.ID, err)
	}

	start, end := Horizon(anchor)
	occurrences := r.Between(start, end.Add(-time.Second), true)

	keys := make([]string, 0, len(occurrences))
	for _, t := range occurrences {
		keys = append(keys, dateutil.Key(t))
	}
	return keys, nil
}

// Expand returns one instance of template per recurrence date. Each
// instance copies the template's fields and carries its own date key, the
// template id as parent, and the instance flag.
func Expand(template event.Event) ([]event.Event, error) {
	if template.Recurrence() == event.RecurNone || template.IsRecurringInstance {
		return nil, ErrNotTemplate
	}
	dates, err := Dates(template)
	if err != nil {
		return nil, err
	}

	instances := make([]event.Event, 0, len(dates))
	for _, dk := range dates {
		inst := template
		inst.ID = InstanceID(template.ID, dk)
		inst.DateKey = dk
		inst.ParentID = template.ID
		inst.IsRecurringParent = false
		inst.IsRecurringInstance = true
		inst.Completed = false
		inst.CompletedAt = 0
		inst.RemindedAt = 0
		instances = append(instances, inst)
	}
	return instances, nil
}

// ExpandCommands returns the writes that store template (marked as parent)
// and all its instances.
func ExpandCommands(template event.Event) ([]event.Command, error) {
	template.IsRecurringParent = true
	template.ParentID = ""
	instances, err := Expand(template)
	if err != nil {
		return nil, err
	}
	cmds := make([]event.Command, 0, len(instances)+1)
	cmds = append(cmds, event.SetEvent(template))
	for _, inst := range instances {
		cmds = append(cmds, event.SetEvent(inst))
	}
	return cmds, nil
}

// DeleteCommands returns the writes that delete ev. Deleting a template
// also deletes its instances dated today or later; past instances remain
// as history. Deleting an instance or a plain record removes only itself.
func DeleteCommands(snap *event.Snapshot, ev event.Event, today string) []event.Command {
	cmds := []event.Command{event.RemoveEvent(ev.DateKey, ev.ID)}
	if !ev.IsTemplate() {
		return cmds
	}
	for _, dk := range snap.DateKeys() {
		if dateutil.IsUndated(dk) || dk < today {
			continue
		}
		for _, other := range snap.Day(dk) {
			if other.ParentID == ev.ID && other.ID != ev.ID {
				cmds = append(cmds, event.RemoveEvent(dk, other.ID))
			}
		}
	}
	return cmds
}

// Instances returns the stored instances of templateID, ordered by date.
func Instances(snap *event.Snapshot, templateID string) []event.Event {
	var out []event.Event
	for _, ev := range snap.All() {
		if ev.ParentID == templateID && ev.IsRecurringInstance {
			out = append(out, ev)
		}
	}
	return out
}
