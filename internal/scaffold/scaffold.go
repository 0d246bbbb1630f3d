// Package scaffold generates the default daily blocks (sleep, work, meal)
// that frame each household member's day.
package scaffold

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// Block names used in generated ids.
const (
	BlockSleep = "sleep"
	BlockWork  = "work"
	BlockMeal  = "meal"
)

const idPrefix = "default_"

// ID returns the stable id of a default block.
func ID(block string, owner event.Owner, dateKey string) string {
	return fmt.Sprintf("%s%s_%s_%s", idPrefix, block, owner, dateKey)
}

// IsDefaultID reports whether id was produced by ID.
func IsDefaultID(id string) bool {
	return strings.HasPrefix(id, idPrefix)
}

// Generate returns the default blocks of dateKey for both users. Sleep is
// generated every day; work and meal only on workdays. A holiday keeps
// sleep only. Generating twice yields the same ids.
func Generate(dateKey string, cfg *config.Config, holiday bool) ([]event.Event, error) {
	day, err := dateutil.ParseDate(dateKey)
	if err != nil {
		return nil, err
	}
	sc := cfg.Scaffold

	type block struct {
		name, title, start, end string
	}
	blocks := []block{{BlockSleep, sc.SleepTitle, sc.SleepStart, sc.SleepEnd}}
	if !holiday && cfg.IsWorkday(day.Weekday()) {
		blocks = append(blocks,
			block{BlockWork, sc.WorkTitle, sc.WorkStart, sc.WorkEnd},
			block{BlockMeal, sc.MealTitle, sc.MealStart, sc.MealEnd},
		)
	}

	var out []event.Event
	for _, owner := range []event.Owner{event.OwnerA, event.OwnerB} {
		for _, b := range blocks {
			out = append(out, event.Event{
				ID:        ID(b.name, owner, dateKey),
				Kind:      event.KindEvent,
				Owner:     owner,
				Title:     b.title,
				DateKey:   dateKey,
				StartTime: b.start,
				EndTime:   b.end,
				Recurring: event.RecurNone,
				IsDefault: true,
			})
		}
	}
	return out, nil
}

// Sync returns the writes that bring the default blocks of dateKey in snap
// in line with Generate: missing or changed blocks are set and default
// blocks that no longer apply are removed. Completion flags are kept.
func Sync(snap *event.Snapshot, dateKey string, cfg *config.Config, holiday bool) ([]event.Command, error) {
	want, err := Generate(dateKey, cfg, holiday)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(want))
	var cmds []event.Command
	for _, ev := range want {
		keep[ev.ID] = true
		cur, ok := snap.Get(dateKey, ev.ID)
		if ok {
			ev.Completed, ev.CompletedAt = cur.Completed, cur.CompletedAt
			if cur == ev {
				continue
			}
		}
		cmds = append(cmds, event.SetEvent(ev))
	}
	for _, ev := range snap.Day(dateKey) {
		if ev.IsDefault && IsDefaultID(ev.ID) && !keep[ev.ID] {
			cmds = append(cmds, event.RemoveEvent(dateKey, ev.ID))
		}
	}
	return cmds, nil
}
