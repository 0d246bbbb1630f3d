package ui

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/scaffold"
)

func (a *App) scaffoldCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "scaffold [start-date]",
		Short: "Write the default sleep, work and meal blocks",
		Long: `Write the default daily blocks for both members from a start date:
sleep every day, work and meal on workdays. Days marked as holidays get
sleep only. Running it again only writes what changed.`,
		Example: `  bnapp scaffold
  bnapp scaffold 2025-01-05 --days=14`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := a.resolveDate(firstArg(args))
			if err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			holidays, err := a.store.Holidays(ctx)
			if err != nil {
				return fmt.Errorf("loading holidays: %w", err)
			}

			var cmds []event.Command
			for i := range days {
				dk := dateutil.AddDays(start, i)
				sync, err := scaffold.Sync(snap, dk, a.config, holidays[dk])
				if err != nil {
					return err
				}
				cmds = append(cmds, sync...)
			}
			if len(cmds) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Default blocks already up to date")
				return nil
			}
			if err := a.apply(ctx, cmds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d block changes over %d days\n", len(cmds), days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to scaffold")
	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
