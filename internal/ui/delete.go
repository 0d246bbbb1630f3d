package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/recurrence"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Long: `Delete a record by its id.

Deleting a recurring template also deletes its instances from today on.
Past instances stay as history.`,
		Example: `  bnapp delete 3f2a9c1b7e0d`,
		Args:    cobra.ExactArgs(1),
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

			cmds := recurrence.DeleteCommands(snap, ev, a.today())
			if err := a.apply(ctx, cmds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s: %s", shortID(ev.ID), ev.Title)
			if n := len(cmds) - 1; n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " and %d instances", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
