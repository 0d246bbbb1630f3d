package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
)

func (a *App) doneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a record as completed",
		Long: `Mark a record as completed, or as open again with --undo.

The id may be shortened to any unique prefix or suffix.`,
		Example: `  bnapp done 3f2a9c1b7e0d
  bnapp done 3f2a9c1b7e0d --undo`,
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

			if err := a.apply(ctx, []event.Command{event.CompleteCommand(ev, !undo, a.now().UnixMilli())}); err != nil {
				return err
			}

			state := "Completed"
			if undo {
				state = "Reopened"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", state, shortID(ev.ID), ev.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark as not completed")
	return cmd
}
