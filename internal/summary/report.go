package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/llm"
)

// Report is the statistics of one viewer over one period.
type Report struct {
	Period     Period
	Range      dateutil.DateRange
	User       event.Owner
	Totals     Totals
	Goals      []GoalStatus
	Insight    string
	InsightErr error
}

// BuildOptions configures the store-backed report builder.
type BuildOptions struct {
	Period Period
	// Anchor selects the period containing this date. When zero, the
	// period before the one containing Now is used.
	Anchor     time.Time
	Now        time.Time
	User       event.Owner
	Categories Categories

	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string
}

// Summarize aggregates snap for user over rng and evaluates goals.
func Summarize(snap *event.Snapshot, rng dateutil.DateRange, p Period, user event.Owner, goals []event.Goal, cats Categories) *Report {
	totals := Aggregate(snap, rng, user, cats)
	return &Report{
		Period: p,
		Range:  rng,
		User:   user,
		Totals: totals,
		Goals:  EvaluateGoals(totals, goals, p, cats),
	}
}

// Build loads the snapshot and goals from the store and summarizes the
// requested period. An insight failure is recorded on the report, not
// returned.
func Build(ctx context.Context, src event.Reader, opts BuildOptions) (*Report, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := RangeFor(opts.Period, now)
	if !opts.Anchor.IsZero() {
		rng = RangeForAnchor(opts.Period, opts.Anchor)
	}

	snap, err := src.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	goals, err := src.Goals(ctx, opts.User)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	report := Summarize(snap, rng, opts.Period, opts.User, goals, opts.Categories)

	if opts.IncludeInsight && report.Totals.CountedMinutes() > 0 {
		report.Insight, report.InsightErr = insight(ctx, report, opts)
	}
	return report, nil
}

func insight(ctx context.Context, r *Report, opts BuildOptions) (string, error) {
	if opts.Model == "" && opts.Provider != "" && opts.Provider != llm.ProviderCopilot {
		return "", errors.New("model is required for insight")
	}
	client, err := llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("creating LLM client: %w", err)
	}
	label := fmt.Sprintf("%s to %s", dateutil.Key(r.Range.Start), dateutil.Key(r.Range.End))
	return llm.NewEvaluator(client).EvaluatePeriod(ctx, label, r.Lines())
}

// Lines renders the report as one "category: hours" line per bucket,
// followed by goal lines.
func (r *Report) Lines() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sleep: %.1fh\n", hours(r.Totals.SleepMinutes))
	fmt.Fprintf(&sb, "Work: %.1fh\n", hours(r.Totals.WorkMinutes))
	for _, title := range r.Totals.OtherTitles() {
		fmt.Fprintf(&sb, "%s: %.1fh\n", title, hours(r.Totals.Other[title]))
	}
	fmt.Fprintf(&sb, "Free: %.1fh\n", hours(r.Totals.FreeMinutes))
	for _, g := range r.Goals {
		fmt.Fprintf(&sb, "Goal %s: %.1fh of %.1fh (%s)\n", g.Goal.Title, g.ActualHours, g.TargetHours, g.Status)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func hours(minutes int) float64 {
	return float64(minutes) / 60
}
