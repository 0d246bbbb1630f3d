package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/apply"
	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// Options configures an Engine.
type Options struct {
	Store      event.Reader
	Runner     *apply.Runner
	Dispatcher Dispatcher
	Log        zerolog.Logger
	Location   *time.Location
	Lookback   time.Duration
	Window     time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Engine scans the store on a cron schedule and delivers due reminders.
// Delivered reminders are marked with remindedAt so they fire once.
type Engine struct {
	opts Options
	cron *cron.Cron
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	opts.Log = opts.Log.With().Str("component", "reminder").Logger()
	return &Engine{opts: opts}
}

// Tick runs one scan and returns the number of reminders delivered.
func (e *Engine) Tick(ctx context.Context) (int, error) {
	now := e.opts.Now().In(e.opts.Location)

	snap, err := e.opts.Store.Snapshot(ctx)
	if err != nil {
		ticksTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("loading events: %w", err)
	}

	due := Due(snap, e.dateKeys(now), now, e.opts.Lookback, e.opts.Window, e.opts.Location)

	var cmds []event.Command
	for _, r := range due {
		if err := e.opts.Dispatcher.Dispatch(ctx, r); err != nil {
			remindersFailedTotal.Inc()
			e.opts.Log.Warn().Err(err).Str("tag", r.Tag()).Msg("reminder dispatch failed")
			continue
		}
		remindersSentTotal.Inc()
		cmds = append(cmds, event.UpdateEvent(r.Event.DateKey, r.Event.ID, event.Fields{
			"remindedAt": now.UnixMilli(),
		}))
	}

	if len(cmds) > 0 {
		e.opts.Runner.Run(ctx, cmds)
	}
	ticksTotal.WithLabelValues("ok").Inc()
	return len(cmds), nil
}

// Upcoming returns the undelivered reminders of today and tomorrow that fire
// from now on.
func (e *Engine) Upcoming(ctx context.Context) ([]Reminder, error) {
	now := e.opts.Now().In(e.opts.Location)
	snap, err := e.opts.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return Due(snap, e.dateKeys(now), now, 0, 48*time.Hour, e.opts.Location), nil
}

// Start schedules Tick with a cron spec such as "@every 1m".
func (e *Engine) Start(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(e.opts.Location))
	_, err := c.AddFunc(spec, func() {
		n, err := e.Tick(ctx)
		if err != nil {
			e.opts.Log.Error().Err(err).Msg("reminder scan failed")
			return
		}
		if n > 0 {
			e.opts.Log.Info().Int("sent", n).Msg("reminders delivered")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling reminders: %w", err)
	}
	e.cron = c
	c.Start()
	return nil
}

// Stop halts the schedule and waits for a running scan to finish.
func (e *Engine) Stop() {
	if e.cron == nil {
		return
	}
	<-e.cron.Stop().Done()
}

func (e *Engine) dateKeys(now time.Time) []string {
	today := dateutil.Key(now)
	return []string{today, dateutil.AddDays(today, 1)}
}
