package summary

import (
	"math"

	"github.com/javiermolinar/bnapp/internal/event"
)

// GoalTolerance is the band, in hours, within which a goal counts as met.
const GoalTolerance = 0.5

// Status classifies actual time against a goal target.
type Status string

const (
	StatusLow  Status = "low"
	StatusOK   Status = "ok"
	StatusHigh Status = "high"
)

// GoalStatus is the evaluation of one goal over a period.
type GoalStatus struct {
	Goal        event.Goal
	ActualHours float64
	TargetHours float64
	Status      Status
}

// Diff returns actual minus target hours.
func (g GoalStatus) Diff() float64 {
	return g.ActualHours - g.TargetHours
}

// Classify compares actual to target hours with a ±GoalTolerance band.
func Classify(actual, target float64) Status {
	diff := actual - target
	switch {
	case diff < -GoalTolerance:
		return StatusLow
	case diff > GoalTolerance:
		return StatusHigh
	default:
		return StatusOK
	}
}

// EvaluateGoals scales each weekly goal to the period and compares it with
// the hours recorded under the goal's title.
func EvaluateGoals(totals Totals, goals []event.Goal, p Period, cats Categories) []GoalStatus {
	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		actual := float64(totals.Minutes(g.Title, cats)) / 60
		target := g.WeeklyHours * p.Multiplier()
		out = append(out, GoalStatus{
			Goal:        g,
			ActualHours: round1(actual),
			TargetHours: round1(target),
			Status:      Classify(actual, target),
		})
	}
	return out
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
