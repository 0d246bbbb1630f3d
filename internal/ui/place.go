package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/assistant"
)

func (a *App) placeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place undated tasks into free slots",
		Long: `Put every open undated task into the first free slot that fits it,
walking from today up to the task's urgency horizon: today only, 7 days
for "week", 14 days otherwise. Placed tasks move to their new date.`,
		Example: `  bnapp place --dry-run
  bnapp place`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}

			helper := assistant.New(assistant.Options{Scheduler: a.scheduler(), Log: a.log})
			report := helper.PlaceUndated(snap, a.today())

			out := cmd.OutOrStdout()
			if len(report.Placements) == 0 {
				fmt.Fprintln(out, "No undated tasks to place.")
				return nil
			}
			for i, p := range report.Placements {
				line := report.Lines[i]
				if !p.Placed() {
					line = formatWarn(line)
				}
				fmt.Fprintf(out, "  %s\n", line)
			}

			if dryRun || report.Placed() == 0 {
				return nil
			}
			if err := a.apply(ctx, report.Commands()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Placed %d of %d tasks\n", report.Placed(), len(report.Placements))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the placements without saving them")
	return cmd
}
