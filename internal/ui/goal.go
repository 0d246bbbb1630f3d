package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
)

func (a *App) goalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage weekly time goals",
		Long: `Weekly goals set how many hours per week a title should get. Stats
scale them to the period and flag each as low, ok or high.`,
	}
	cmd.AddCommand(a.goalAddCmd(), a.goalListCmd(), a.goalRemoveCmd())
	return cmd
}

func (a *App) goalAddCmd() *cobra.Command {
	var hours float64

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a weekly goal for the current user",
		Example: `  bnapp goal add Gym --hours=4`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := a.viewer()
			if err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			g := event.Goal{
				ID:          a.store.NewID(),
				Owner:       owner,
				Title:       strings.TrimSpace(strings.Join(args, " ")),
				WeeklyHours: hours,
			}
			if err := event.ValidateGoal(g); err != nil {
				return err
			}
			if err := a.apply(cmd.Context(), []event.Command{event.SetGoal(g)}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal %s: %s %.1fh/week\n", shortID(g.ID), g.Title, g.WeeklyHours)
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Target hours per week")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func (a *App) goalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current user's goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := a.viewer()
			if err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			goals, err := a.store.Goals(cmd.Context(), owner)
			if err != nil {
				return fmt.Errorf("listing goals: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(goals) == 0 {
				fmt.Fprintln(out, "No goals set.")
				return nil
			}
			for _, g := range goals {
				fmt.Fprintf(out, "  %-20s %5.1fh/week  %s\n", g.Title, g.WeeklyHours, formatMuted(shortID(g.ID)))
			}
			return nil
		},
	}
}

func (a *App) goalRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := a.viewer()
			if err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := cmd.Context()
			goals, err := a.store.Goals(ctx, owner)
			if err != nil {
				return fmt.Errorf("listing goals: %w", err)
			}
			for _, g := range goals {
				if g.ID == args[0] || strings.HasSuffix(g.ID, args[0]) {
					if err := a.apply(ctx, []event.Command{event.RemoveGoal(owner, g.ID)}); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed goal %s\n", g.Title)
					return nil
				}
			}
			return fmt.Errorf("goal %s not found", args[0])
		},
	}
}
