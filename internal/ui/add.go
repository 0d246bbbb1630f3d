package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/recurrence"
)

// ErrConflict is returned by add when the new record overlaps existing
// ones and neither --force nor --replace was given.
var ErrConflict = errors.New("overlaps existing records")

func (a *App) addCmd() *cobra.Command {
	var (
		date      string
		start     string
		end       string
		duration  int
		owner     string
		kind      string
		urgency   string
		recurring string
		reminder  int
		address   string
		desc      string
		force     bool
		replace   bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an event or task",
		Long: `Add an event or a task to the calendar.

The record is checked for overlaps with records of the same owner and
shared records. An overlap stops the command unless --force keeps both
or --replace deletes the overlapping records first.

A recurring record is stored as a template and expanded into instances
for one year.`,
		Example: `  bnapp add "Dentist" --date=2025-01-10 --start=09:00 --end=10:00 --reminder=30
  bnapp add "Family dinner" --date=friday --start=19:00 --end=21:00 --owner=shared
  bnapp add "Fix the shelf" --type=task --date=undated --duration=45 --urgency=week
  bnapp add "Gym" --date=sunday --start=07:00 --end=08:00 --recurring=weekly`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if force && replace {
				return errors.New("--force and --replace are mutually exclusive")
			}
			dk, err := a.resolveDate(date)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
			if owner == "" {
				owner = string(a.currentUser())
			}

			ev := event.Normalize(event.Event{
				Kind:            event.Kind(kind),
				Owner:           event.Owner(owner),
				Title:           strings.Join(args, " "),
				Description:     desc,
				Address:         address,
				DateKey:         dk,
				StartTime:       start,
				EndTime:         end,
				Duration:        duration,
				Urgency:         event.Urgency(urgency),
				Recurring:       event.Recurrence(recurring),
				ReminderMinutes: reminder,
			})
			if err := event.Validate(ev); err != nil {
				return err
			}

			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			ev.ID = a.store.NewID()

			cmds, err := a.resolveConflicts(cmd.OutOrStdout(), snap, ev, "", force, replace)
			if err != nil {
				return err
			}

			if ev.IsTemplate() {
				series, err := recurrence.ExpandCommands(ev)
				if err != nil {
					return err
				}
				cmds = append(cmds, series...)
			} else {
				cmds = append(cmds, event.SetEvent(ev))
			}

			if err := a.apply(ctx, cmds); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s %s: %s [%s] %s %s\n",
				ev.Kind, shortID(ev.ID), ev.Title, a.config.UserName(ev.Owner), ev.DateKey, strings.TrimSpace(timeSpan(ev)))
			if ev.IsTemplate() {
				instances := 0
				for _, c := range cmds {
					if c.Op == event.OpSet && c.Record != nil && c.Record.IsRecurringInstance {
						instances++
					}
				}
				fmt.Fprintf(out, "Expanded %s into %d instances\n", ev.Recurring, instances)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, a weekday or undated; default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes for tasks without times")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner: userA, userB or shared (default: current user)")
	cmd.Flags().StringVar(&kind, "type", string(event.KindEvent), "Record type: event or task")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Task urgency: today, week, month or none")
	cmd.Flags().StringVar(&recurring, "recurring", "", "Repeat: none, weekly, monthly_greg or yearly_greg")
	cmd.Flags().IntVar(&reminder, "reminder", 0, "Reminder lead time in minutes")
	cmd.Flags().StringVar(&address, "address", "", "Address")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().BoolVar(&force, "force", false, "Keep overlapping records")
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete overlapping records")

	return cmd
}

// overlapping returns the records ev conflicts with on its day. Series
// templates are left out: the day's instance stands for them.
func overlapping(snap *event.Snapshot, ev event.Event, excludeID string) []event.Event {
	if ev.IsUndated() {
		return nil
	}
	var out []event.Event
	for _, c := range event.FindConflicts(snap, ev.DateKey, ev, excludeID) {
		if !c.IsTemplate() {
			out = append(out, c)
		}
	}
	return out
}

// resolveConflicts prints the overlaps of ev and decides what to do about
// them. With replace it returns the removal of each overlapping record; an
// instance of a series is removed alone and the series stays. Without force
// or replace an overlap fails with ErrConflict.
func (a *App) resolveConflicts(w io.Writer, snap *event.Snapshot, ev event.Event, excludeID string, force, replace bool) ([]event.Command, error) {
	conflicts := overlapping(snap, ev, excludeID)
	if len(conflicts) == 0 {
		return nil, nil
	}
	printConflicts(w, a, conflicts)
	switch {
	case replace:
		cmds := make([]event.Command, 0, len(conflicts))
		for _, c := range conflicts {
			cmds = append(cmds, event.RemoveEvent(c.DateKey, c.ID))
		}
		return cmds, nil
	case force:
		return nil, nil
	default:
		return nil, fmt.Errorf("%q %w (use --force or --replace)", ev.Title, ErrConflict)
	}
}

func printConflicts(w io.Writer, a *App, conflicts []event.Event) {
	fmt.Fprintln(w, formatWarn(fmt.Sprintf("Overlaps %d record(s):", len(conflicts))))
	for _, c := range conflicts {
		PrintEventRow(w, c, a.config.UserName(c.Owner), 30)
	}
}
