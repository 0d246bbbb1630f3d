package ui

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		undated   bool
		defaults  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records in a date range",
		Long: `List the records the current user sees within a date range: their
own and shared ones.

If no dates are specified, lists today's records.
If only --start is specified, lists records for that single day.
If both --start and --end are specified, lists records in that range (inclusive).`,
		Example: `  bnapp list
  bnapp list --start=2025-01-15
  bnapp list --start=2025-01-15 --end=2025-01-20
  bnapp list --undated
  bnapp list --user=shared`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if undated {
				tasks := visible(snap.Undated(), viewer, true)
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No undated records.")
					return nil
				}
				fmt.Fprintf(out, "=== %s ===\n", formatHeader("Undated"))
				for _, ev := range tasks {
					a.printRow(out, ev)
				}
				return nil
			}

			if startDate == "" {
				startDate = a.today()
			}
			if startDate, err = a.resolveDate(startDate); err != nil {
				return err
			}
			if endDate != "" {
				if endDate, err = a.resolveDate(endDate); err != nil {
					return err
				}
			}
			rng, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			printed := 0
			for _, dk := range rng.Keys() {
				day := visible(snap.Day(dk), viewer, defaults)
				if len(day) == 0 {
					continue
				}
				if printed > 0 {
					fmt.Fprintln(out)
				}
				printDayHeader(out, dk)
				for _, ev := range day {
					a.printRow(out, ev)
				}
				printed++
			}
			if printed == 0 {
				fmt.Fprintln(out, "No records found in the specified date range.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().BoolVar(&undated, "undated", false, "List undated records")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "Include default sleep, work and meal blocks")

	return cmd
}

func (a *App) printRow(w io.Writer, ev event.Event) {
	PrintEventRow(w, ev, a.config.UserName(ev.Owner), 36)
}

func printDayHeader(w io.Writer, dateKey string) {
	label := dateKey
	if t, err := dateutil.ParseDate(dateKey); err == nil {
		label = t.Format("Monday, January 2, 2006")
	}
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(label))
}

// visible filters a day to the records viewer sees, ordered by start time.
// Series templates are hidden since their instances carry the days.
func visible(events []event.Event, viewer event.Owner, withDefaults bool) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if !event.Relevant(ev.Owner, viewer) || ev.IsTemplate() {
			continue
		}
		if ev.IsDefault && !withDefaults {
			continue
		}
		out = append(out, ev)
	}
	slices.SortStableFunc(out, func(x, y event.Event) int {
		if c := cmp.Compare(x.StartTime, y.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(x.Title, y.Title)
	})
	return out
}
