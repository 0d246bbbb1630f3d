package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/recurrence"
)

func (a *App) expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <template-id>",
		Short: "Re-expand a recurring template",
		Long: `Write the instances of a recurring template for one year from its
date. Instances that already exist are overwritten, so running this
again never creates duplicates.`,
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

			if ev.IsRecurringInstance {
				if parent, ok := snap.Find(ev.ParentID); ok {
					ev = parent
				}
			}

			cmds, err := recurrence.ExpandCommands(ev)
			if err != nil {
				return err
			}
			if err := a.apply(ctx, cmds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Expanded %s (%s) into %d instances\n", ev.Title, ev.Recurring, len(cmds)-1)
			return nil
		},
	}
}
