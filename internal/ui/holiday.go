package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/provider"
	"github.com/javiermolinar/bnapp/internal/scaffold"
)

func (a *App) holidayCmd() *cobra.Command {
	var (
		unset bool
		list  int
	)

	cmd := &cobra.Command{
		Use:   "holiday [date]",
		Short: "Mark a day off",
		Long: `Mark a day as a holiday, or clear the mark with --clear. On a holiday
the default work and meal blocks are dropped and only sleep remains.

With --list=YEAR the Jewish holidays of that year are fetched from Hebcal
instead.`,
		Example: `  bnapp holiday 2025-04-13
  bnapp holiday 2025-04-13 --clear
  bnapp holiday --list=2025`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if list > 0 {
				hebcal := provider.NewHebcal(a.config.Providers.HebcalURL, a.config.ProviderTimeout())
				days, err := hebcal.Holidays(ctx, list)
				if err != nil {
					return fmt.Errorf("fetching holidays for %d: %w", list, err)
				}
				keys := sortedKeys(days)
				for _, dk := range keys {
					fmt.Fprintf(out, "  %s  %s\n", dk, days[dk])
				}
				return nil
			}

			dk, err := a.resolveDate(firstArg(args))
			if err != nil {
				return err
			}
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}

			cmds := []event.Command{event.SetHoliday(dk, !unset)}
			if a.config.Scaffold.Enabled {
				sync, err := scaffold.Sync(snap, dk, a.config, !unset)
				if err != nil {
					return err
				}
				cmds = append(cmds, sync...)
			}
			if err := a.apply(ctx, cmds); err != nil {
				return err
			}

			if unset {
				fmt.Fprintf(out, "%s is a regular day\n", dk)
			} else {
				fmt.Fprintf(out, "%s marked as holiday\n", dk)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unset, "clear", false, "Remove the holiday mark")
	cmd.Flags().IntVar(&list, "list", 0, "List the Jewish holidays of a year")
	return cmd
}
