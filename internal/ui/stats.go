package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/llm"
	"github.com/javiermolinar/bnapp/internal/summary"
)

func (a *App) statsCmd() *cobra.Command {
	var (
		anchor    string
		noInsight bool
		trend     int
		model     string
	)

	cmd := &cobra.Command{
		Use:   "stats [day|week|two_weeks|month|year]",
		Short: "Show where the time went and how goals are doing",
		Long: `Summarize a completed period for the current user: sleep, work, every
other title, free time, and each weekly goal scaled to the period.

Without --anchor the period before the current one is shown: yesterday,
last Sunday-Saturday week, the two weeks before this week, last month or
last year.`,
		Example: `  bnapp stats
  bnapp stats month --no-insight
  bnapp stats week --anchor=2025-01-08 --trend=14`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := summary.ParsePeriod(firstArg(args))
			if err != nil {
				return err
			}
			viewer, err := a.viewer()
			if err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}
			if model == "" {
				model = a.config.LLM.Model
			}

			opts := summary.BuildOptions{
				Period:         period,
				Now:            a.clock(),
				User:           viewer,
				Categories:     a.categories(),
				IncludeInsight: !noInsight && a.config.LLM.Provider != llm.ProviderNone,
				Provider:       a.config.LLM.Provider,
				Model:          model,
				BaseURL:        a.config.LLM.BaseURL,
			}
			if anchor != "" {
				t, err := dateutil.ParseDate(anchor)
				if err != nil {
					return fmt.Errorf("invalid anchor: %w", err)
				}
				opts.Anchor = t
			}

			ctx := cmd.Context()
			report, err := summary.Build(ctx, a.store, opts)
			if err != nil {
				return fmt.Errorf("building report: %w", err)
			}

			out := cmd.OutOrStdout()
			printReport(out, report, a.config.UserName(viewer))

			if report.InsightErr != nil {
				a.log.Warn().Err(report.InsightErr).Msg("insight unavailable")
			}
			if report.Insight != "" {
				fmt.Fprintln(out)
				PrintInsightWrapped(out, report.Insight, min(termWidth(), 100))
			}

			if trend > 0 {
				snap, err := a.snapshot(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				printTrend(out, summary.LoadSeries(snap, a.scheduler(), viewer, a.clock(), trend))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "Show the period containing this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&noInsight, "no-insight", false, "Skip the language model insight")
	cmd.Flags().IntVar(&trend, "trend", 0, "Also chart the busy hours of the last N days")
	cmd.Flags().StringVar(&model, "model", "", "Model for the insight (default from config)")
	return cmd
}

func (a *App) categories() summary.Categories {
	return summary.Categories{
		Sleep: a.config.Categories.Sleep,
		Work:  a.config.Categories.Work,
		Meal:  a.config.Categories.Meal,
	}
}

func printReport(w io.Writer, r *summary.Report, name string) {
	header := fmt.Sprintf("%s: %s - %s (%s)", strings.ToUpper(strings.ReplaceAll(string(r.Period), "_", " ")),
		r.Range.Start.Format("Mon Jan 2"), r.Range.End.Format("Mon Jan 2, 2006"), name)
	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	t := r.Totals
	if t.CountedMinutes() == 0 {
		fmt.Fprintln(w, "  Nothing recorded in this period.")
	}
	maxMinutes := max(t.SleepMinutes, t.WorkMinutes, t.FreeMinutes)
	for _, m := range t.Other {
		maxMinutes = max(maxMinutes, m)
	}
	row := func(label string, minutes int) {
		fmt.Fprintf(w, "  %-18s %8s  %s\n", truncate(label, 18), FormatDuration(minutes),
			formatMuted(Bar(float64(minutes), float64(maxMinutes), 24)))
	}
	row("Sleep", t.SleepMinutes)
	row("Work", t.WorkMinutes)
	for _, title := range t.OtherTitles() {
		row(title, t.Other[title])
	}
	fmt.Fprintf(w, "  %-18s %8s\n", "Free", formatStats(FormatDuration(t.FreeMinutes)))

	if len(r.Goals) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", formatHeader("Goals"))
	for _, g := range r.Goals {
		status := string(g.Status)
		switch g.Status {
		case summary.StatusOK:
			status = formatStats(status)
		case summary.StatusLow:
			status = formatWarn(status)
		default:
			status = formatInsight(status)
		}
		fmt.Fprintf(w, "  %-18s %6.1fh of %6.1fh  %+6.1fh  %s\n",
			truncate(g.Goal.Title, 18), g.ActualHours, g.TargetHours, g.Diff(), status)
	}
}

func printTrend(w io.Writer, points []summary.DayPoint) {
	fmt.Fprintf(w, "  %s\n", formatHeader("Busy hours"))
	peak := 0.0
	for _, p := range points {
		peak = max(peak, p.Hours)
	}
	for _, p := range points {
		label := p.DateKey
		if t, err := time.Parse(dateutil.KeyLayout, p.DateKey); err == nil {
			label = t.Format("Mon Jan 02")
		}
		fmt.Fprintf(w, "  %s  %s %4.1fh\n", label, Bar(p.Hours, peak, 30), p.Hours)
	}
}
