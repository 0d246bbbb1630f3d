package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/scheduler"
)

func (a *App) freeCmd() *cobra.Command {
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "free [date]",
		Short: "Show busy time and free slots of a day",
		Long: `Merge the busy records of a day as the current user sees them and list
the free slots inside the configured day window.`,
		Example: `  bnapp free
  bnapp free tomorrow --copy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			dk, err := a.resolveDate(firstArg(args))
			if err != nil {
				return err
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			sched := a.scheduler()
			load := sched.DayLoad(snap, dk, viewer)

			out := cmd.OutOrStdout()
			printDayHeader(out, dk)
			fmt.Fprintf(out, "  Busy: %s in %d block(s)\n", formatStats(FormatDuration(load.TotalBusyMinutes)), len(load.Busy))
			if len(load.FreeSlots) == 0 {
				fmt.Fprintf(out, "  No free slots of %dm or more between %s and %s\n", sched.MinFree(), sched.DayStart(), sched.DayEnd())
				return nil
			}
			fmt.Fprintln(out, "  Free:")
			for _, slot := range load.FreeSlots {
				fmt.Fprintf(out, "    %s  %s\n", slot, formatMuted(FormatDuration(slot.Minutes())))
			}

			if copyOut {
				if err := clipboard.WriteAll(freeSlotsText(dk, load.FreeSlots)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("  Copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the free slots to the clipboard")
	return cmd
}

// freeSlotsText renders free slots as a shareable one-liner.
func freeSlotsText(dateKey string, slots []scheduler.Interval) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.String()
	}
	return fmt.Sprintf("Free on %s: %s", dateKey, strings.Join(parts, ", "))
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
