package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
)

func (a *App) editCmd() *cobra.Command {
	var (
		title    string
		date     string
		start    string
		end      string
		duration int
		owner    string
		kind     string
		urgency  string
		reminder int
		address  string
		desc     string
		force    bool
		replace  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an event or task",
		Long: `Change the fields of an existing record. Only the flags given are
changed; an empty value clears an optional field such as --end.

The edited record is checked for overlaps like add, ignoring itself.
Changing --date moves the record and keeps its id. Editing a recurring
template changes the template only; run expand to rewrite its instances.`,
		Example: `  bnapp edit 3f2a9c1b7e0d --title="Dentist (Dr. Levi)" --reminder=60
  bnapp edit 3f2a9c1b7e0d --start=10:00 --end=11:00 --force
  bnapp edit 3f2a9c1b7e0d --owner=shared --address="Herzl 12"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if force && replace {
				return errors.New("--force and --replace are mutually exclusive")
			}
			ctx := cmd.Context()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}
			old, err := findEvent(snap, args[0])
			if err != nil {
				return err
			}

			ev := old
			flags := cmd.Flags()
			if flags.Changed("title") {
				ev.Title = title
			}
			if flags.Changed("date") {
				if ev.DateKey, err = a.resolveDate(date); err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
			}
			if flags.Changed("start") {
				ev.StartTime = start
			}
			if flags.Changed("end") {
				ev.EndTime = end
			}
			if flags.Changed("duration") {
				ev.Duration = duration
			}
			if flags.Changed("owner") {
				ev.Owner = event.Owner(owner)
			}
			if flags.Changed("type") {
				ev.Kind = event.Kind(kind)
			}
			if flags.Changed("urgency") {
				ev.Urgency = event.Urgency(urgency)
			}
			if flags.Changed("reminder") {
				ev.ReminderMinutes = reminder
				ev.RemindedAt = 0
			}
			if flags.Changed("address") {
				ev.Address = address
			}
			if flags.Changed("desc") {
				ev.Description = desc
			}

			ev = event.Normalize(ev)
			if err := event.Validate(ev); err != nil {
				return err
			}
			if ev == old {
				fmt.Fprintf(cmd.OutOrStdout(), "No changes to %s\n", shortID(ev.ID))
				return nil
			}

			cmds, err := a.resolveConflicts(cmd.OutOrStdout(), snap, ev, ev.ID, force, replace)
			if err != nil {
				return err
			}
			cmds = append(cmds, event.SetEvent(ev))
			if ev.DateKey != old.DateKey {
				cmds = append(cmds, event.RemoveEvent(old.DateKey, old.ID))
			}
			if err := a.apply(ctx, cmds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s: %s [%s] %s %s\n",
				ev.Kind, shortID(ev.ID), ev.Title, a.config.UserName(ev.Owner), ev.DateKey, strings.TrimSpace(timeSpan(ev)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD, today, tomorrow, a weekday or undated)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes for tasks without times")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner: userA, userB or shared")
	cmd.Flags().StringVar(&kind, "type", "", "Record type: event or task")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Task urgency: today, week, month or none")
	cmd.Flags().IntVar(&reminder, "reminder", 0, "Reminder lead time in minutes")
	cmd.Flags().StringVar(&address, "address", "", "Address")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().BoolVar(&force, "force", false, "Keep overlapping records")
	cmd.Flags().BoolVar(&replace, "replace", false, "Delete overlapping records")

	return cmd
}
