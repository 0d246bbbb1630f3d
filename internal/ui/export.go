package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/ical"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		from   string
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as an iCalendar file",
		Long: `Write the dated records the current user sees in a date range as an
iCalendar document. Records without times become all-day events.`,
		Example: `  bnapp export --from=2025-01-01 --to=2025-01-31 -o january.ics
  bnapp export --user=shared > shared.ics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			if from == "" {
				from = a.today()
			}
			if to == "" {
				to = dateutil.AddDays(from, 30)
			}
			snap, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			doc, err := ical.Export(snap, viewer, from, to, a.location())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			path, err := resolvePath(output)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", from+".."+to, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, default: 30 days after --from)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
