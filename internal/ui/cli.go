// Package ui implements the bnapp command line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/apply"
	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/db"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/scheduler"
	"github.com/javiermolinar/bnapp/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store  *db.SQLite
	config *config.Config
	log    zerolog.Logger
	root   *cobra.Command
	user   string

	// now overrides the clock in tests.
	now func() time.Time
}

// NewApp creates a new CLI application. A nil store is opened lazily from
// the configured database path by the commands that need it.
func NewApp(store *db.SQLite, cfg *config.Config, log zerolog.Logger) *App {
	a := &App{store: store, config: cfg, log: log, now: time.Now}

	a.root = &cobra.Command{
		Use:   "bnapp",
		Short: "A shared household calendar for two",
		Long: `bnapp keeps the calendar of a two-person household.

It tracks events and tasks for each member and shared ones, finds free
time, warns about overlaps, expands recurring events, places undated
tasks, and reports where the time went against weekly goals.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), a.store, a.config, a.currentUser(), a.log)
		},
	}

	a.root.PersistentFlags().StringVarP(&a.user, "user", "u", "", "Act as userA, userB or shared (default from config)")

	a.root.AddCommand(
		a.versionCmd(),
		a.configCmd(),
		a.addCmd(),
		a.editCmd(),
		a.listCmd(),
		a.doneCmd(),
		a.postponeCmd(),
		a.deleteCmd(),
		a.expandCmd(),
		a.freeCmd(),
		a.conflictsCmd(),
		a.placeCmd(),
		a.statsCmd(),
		a.goalCmd(),
		a.holidayCmd(),
		a.scaffoldCmd(),
		a.assistantCmd(),
		a.weatherCmd(),
		a.shabbatCmd(),
		a.cityCmd(),
		a.remindCmd(),
		a.exportCmd(),
		a.importCmd(),
	)

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bnapp %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = store
	return nil
}

// snapshot opens the store and loads the current state.
func (a *App) snapshot(ctx context.Context) (*event.Snapshot, error) {
	if err := a.ensureStore(); err != nil {
		return nil, err
	}
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	return snap, nil
}

// apply executes cmds and fails if any write failed.
func (a *App) apply(ctx context.Context, cmds []event.Command) error {
	if err := a.ensureStore(); err != nil {
		return err
	}
	report := apply.NewRunner(a.store, a.log).Run(ctx, cmds)
	if err := report.Err(); err != nil {
		return fmt.Errorf("%d of %d writes failed: %w", report.Failed(), len(cmds), err)
	}
	return nil
}

func (a *App) currentUser() event.Owner {
	if a.user != "" {
		return event.Owner(a.user)
	}
	return a.config.CurrentUser()
}

// viewer returns the validated --user value.
func (a *App) viewer() (event.Owner, error) {
	u := a.currentUser()
	if !u.Valid() {
		return "", fmt.Errorf("%w: %q", event.ErrInvalidOwner, u)
	}
	return u, nil
}

func (a *App) location() *time.Location {
	return a.config.TimeLocation()
}

// clock returns the current time in the household's time zone.
func (a *App) clock() time.Time {
	return a.now().In(a.location())
}

func (a *App) today() string {
	return dateutil.Key(a.clock())
}

func (a *App) scheduler() *scheduler.Scheduler {
	return scheduler.New(a.config.Schedule.DayStart, a.config.Schedule.DayEnd, a.config.Schedule.MinFreeMinutes)
}

// resolveDate accepts YYYY-MM-DD, "undated" or a relative date such as
// "today", "tomorrow" or a weekday name. Empty means today.
func (a *App) resolveDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return a.today(), nil
	case dateutil.IsUndated(s):
		return dateutil.Undated, nil
	case dateutil.IsDateKey(s):
		return s, nil
	}
	t, err := dateutil.ParseRelativeDate(s, a.clock())
	if err != nil {
		return "", err
	}
	return dateutil.Key(t), nil
}

// findEvent looks a record up by id, or by a unique id prefix or suffix.
func findEvent(snap *event.Snapshot, id string) (event.Event, error) {
	if ev, ok := snap.Find(id); ok {
		return ev, nil
	}
	var match []event.Event
	for _, ev := range snap.All() {
		if strings.HasPrefix(ev.ID, id) || strings.HasSuffix(ev.ID, id) {
			match = append(match, ev)
		}
	}
	switch len(match) {
	case 0:
		return event.Event{}, fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	case 1:
		return match[0], nil
	default:
		return event.Event{}, errors.New("ambiguous id prefix " + id)
	}
}
