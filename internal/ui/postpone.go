package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
)

func (a *App) postponeCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "postpone <id>",
		Short: "Move a record to a new date/time",
		Long: `Move a record to a new date and optionally new times.

The record keeps its id. It is written under the new date and removed
from the old one. Overlaps at the destination are reported but do not
stop the move.`,
		Example: `  bnapp postpone 3f2a9c1b7e0d --date=2025-01-16 --start=14:00 --end=16:00
  bnapp postpone 3f2a9c1b7e0d --date=tomorrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			ev, err := findEvent(snap, args[0])
			if err != nil {
				return err
			}

			newDate, err := a.resolveDate(date)
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}

			cmds := event.MoveCommands(ev, newDate, start, end)
			moved := *cmds[0].Record
			if err := event.Validate(moved); err != nil {
				return err
			}
			if !moved.IsUndated() {
				if conflicts := event.FindConflicts(snap, newDate, moved, ev.ID); len(conflicts) > 0 {
					printConflicts(cmd.OutOrStdout(), a, conflicts)
				}
			}

			if err := a.apply(ctx, cmds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s: %s %s → %s %s\n",
				shortID(ev.ID), ev.Title, ev.DateKey, moved.DateKey, timeSpan(moved))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, tomorrow, a weekday or undated; defaults to today)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM)")

	return cmd
}
