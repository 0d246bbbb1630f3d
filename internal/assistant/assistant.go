// Package assistant implements the household helper: day load summaries,
// free-time suggestions, automatic placement of undated tasks and
// natural-language commands.
package assistant

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/llm"
	"github.com/javiermolinar/bnapp/internal/scheduler"
)

// Level grades how busy a day is.
type Level string

const (
	LevelLight  Level = "light"
	LevelMedium Level = "medium"
	LevelHeavy  Level = "heavy"
)

// Load thresholds in minutes.
const (
	lightBelow  = 180
	mediumBelow = 360
)

// LevelFor grades a day with the given busy minutes.
func LevelFor(minutes int) Level {
	switch {
	case minutes < lightBelow:
		return LevelLight
	case minutes < mediumBelow:
		return LevelMedium
	default:
		return LevelHeavy
	}
}

// DaySummary is the assistant's view of one day.
type DaySummary struct {
	DateKey     string
	LoadMinutes int
	LoadHours   int // rounded
	Level       Level
	FreeSlots   int
}

// Summarize grades a computed day load.
func Summarize(load scheduler.Load) DaySummary {
	return DaySummary{
		DateKey:     load.DateKey,
		LoadMinutes: load.TotalBusyMinutes,
		LoadHours:   int(math.Round(float64(load.TotalBusyMinutes) / 60)),
		Level:       LevelFor(load.TotalBusyMinutes),
		FreeSlots:   len(load.FreeSlots),
	}
}

func (d DaySummary) String() string {
	return fmt.Sprintf("Daily load: %dh (%s day), %d free slots", d.LoadHours, d.Level, d.FreeSlots)
}

// Options configures an Assistant.
type Options struct {
	Scheduler *scheduler.Scheduler
	Humor     *Humor

	// Parser is required only by Ask.
	Parser     *llm.CommandParser
	Compact    bool
	MaxRetries int

	// UserName resolves display names for the prompt.
	UserName func(event.Owner) string
	Log      zerolog.Logger
}

// Assistant answers the household's scheduling questions.
type Assistant struct {
	opts Options
}

// New creates an Assistant. A nil scheduler uses the default window and a
// nil Humor disables the openers.
func New(opts Options) *Assistant {
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.Default()
	}
	if opts.UserName == nil {
		opts.UserName = func(o event.Owner) string { return string(o) }
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	opts.Log = opts.Log.With().Str("component", "assistant").Logger()
	return &Assistant{opts: opts}
}

// Say wraps msg with a casual opener.
func (a *Assistant) Say(msg string) string {
	if a.opts.Humor == nil {
		return msg
	}
	return a.opts.Humor.Wrap(msg)
}

// Summary grades dateKey for user.
func (a *Assistant) Summary(snap *event.Snapshot, dateKey string, user event.Owner) DaySummary {
	return Summarize(a.opts.Scheduler.DayLoad(snap, dateKey, user))
}

// SuggestNow returns the first free slot of today that is still usable at
// now. The slot starts no earlier than now rounded up to a quarter hour.
func (a *Assistant) SuggestNow(snap *event.Snapshot, user event.Owner, now time.Time) (scheduler.Interval, bool) {
	load := a.opts.Scheduler.DayLoad(snap, dateutil.Key(now), user)
	return a.opts.Scheduler.NextFreeFrom(load, now.Hour()*60+now.Minute())
}

// SuggestMessage renders SuggestNow.
func (a *Assistant) SuggestMessage(snap *event.Snapshot, user event.Owner, now time.Time) string {
	slot, ok := a.SuggestNow(snap, user, now)
	if !ok {
		return a.Say("No free window left today.")
	}
	return a.Say(fmt.Sprintf("You're free %s (%d min).", slot, slot.Minutes()))
}

// PlacementReport is the outcome of an automatic placement run.
type PlacementReport struct {
	Placements []scheduler.Placement
	Lines      []string
}

// Commands returns the writes of every successful placement in order.
func (r PlacementReport) Commands() []event.Command {
	var cmds []event.Command
	for _, p := range r.Placements {
		if p.Placed() {
			cmds = append(cmds, p.Commands...)
		}
	}
	return cmds
}

// Placed counts the tasks that found a slot.
func (r PlacementReport) Placed() int {
	n := 0
	for _, p := range r.Placements {
		if p.Placed() {
			n++
		}
	}
	return n
}

// PlaceUndated runs the placer and describes each outcome.
func (a *Assistant) PlaceUndated(snap *event.Snapshot, today string) PlacementReport {
	placements := a.opts.Scheduler.PlaceUndated(snap, today)
	lines := make([]string, 0, len(placements))
	for _, p := range placements {
		if p.Placed() {
			lines = append(lines, fmt.Sprintf("%q -> %s %s", p.Task.Title, p.DateKey, p.Slot))
			continue
		}
		lines = append(lines, fmt.Sprintf("%q: no free slot within %d days", p.Task.Title, scheduler.Horizon(p.Task.Urgency)))
	}
	return PlacementReport{Placements: placements, Lines: lines}
}

// PlacementMessage renders a placement report.
func (a *Assistant) PlacementMessage(r PlacementReport) string {
	if len(r.Placements) == 0 {
		return a.Say("No undated tasks to place.")
	}
	head := fmt.Sprintf("Placed %d of %d tasks:", r.Placed(), len(r.Placements))
	return a.Say(head + "\n" + strings.Join(r.Lines, "\n"))
}
