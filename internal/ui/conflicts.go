package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/event"
)

func (a *App) conflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts [date]",
		Short: "List overlapping records of a day",
		Long: `List every pair of overlapping records on a day that the current user
sees. Records of the two members never conflict with each other; shared
records conflict with both.`,
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

			out := cmd.OutOrStdout()
			pairs := dayConflicts(snap, dk, viewer)
			if len(pairs) == 0 {
				fmt.Fprintf(out, "No conflicts on %s\n", dk)
				return nil
			}
			printDayHeader(out, dk)
			for _, p := range pairs {
				fmt.Fprintf(out, "  %s %s %s-%s  ↔  %s %s-%s\n", formatWarn("!"),
					p[0].Title, p[0].StartTime, p[0].EndTime,
					p[1].Title, p[1].StartTime, p[1].EndTime)
			}
			return nil
		},
	}
}

// dayConflicts returns each overlapping pair once, in id order. A template
// always overlaps its own instance on the anchor day, so templates are
// left out.
func dayConflicts(snap *event.Snapshot, dateKey string, viewer event.Owner) [][2]event.Event {
	var pairs [][2]event.Event
	for _, ev := range snap.Day(dateKey) {
		if !event.Relevant(ev.Owner, viewer) || ev.IsDefault || ev.IsTemplate() {
			continue
		}
		for _, other := range event.FindConflicts(snap, dateKey, ev, ev.ID) {
			if other.ID > ev.ID && event.Relevant(other.Owner, viewer) && !other.IsTemplate() {
				pairs = append(pairs, [2]event.Event{ev, other})
			}
		}
	}
	return pairs
}
