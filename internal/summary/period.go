// Package summary aggregates time spent per category over a period and
// evaluates it against weekly goals.
package summary

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
)

// ErrInvalidPeriod is returned for an unknown period name.
var ErrInvalidPeriod = errors.New("period must be 'day', 'week', 'two_weeks', 'month' or 'year'")

// Period is a statistics window.
type Period string

const (
	PeriodDay      Period = "day"
	PeriodWeek     Period = "week"
	PeriodTwoWeeks Period = "two_weeks"
	PeriodMonth    Period = "month"
	PeriodYear     Period = "year"
)

// ParsePeriod parses a period name. "two-weeks" is accepted as an alias.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")); p {
	case PeriodDay, PeriodWeek, PeriodTwoWeeks, PeriodMonth, PeriodYear:
		return p, nil
	case "":
		return PeriodWeek, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Multiplier scales a weekly goal to the length of the period.
func (p Period) Multiplier() float64 {
	switch p {
	case PeriodDay:
		return 1.0 / 7.0
	case PeriodTwoWeeks:
		return 2
	case PeriodMonth:
		return 4.345
	case PeriodYear:
		return 52
	default:
		return 1
	}
}

// RangeFor returns the completed period immediately before the one that
// contains now: yesterday, the previous Sunday-Saturday week, the two weeks
// before the current week, the previous calendar month, or the previous
// calendar year.
func RangeFor(p Period, now time.Time) dateutil.DateRange {
	today := dateutil.Date(now)
	sunday, _ := dateutil.WeekRange(today)

	switch p {
	case PeriodDay:
		y := today.AddDate(0, 0, -1)
		return dateutil.DateRange{Start: y, End: y}
	case PeriodTwoWeeks:
		return dateutil.DateRange{Start: sunday.AddDate(0, 0, -14), End: sunday.AddDate(0, 0, -1)}
	case PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return dateutil.DateRange{Start: first.AddDate(0, -1, 0), End: first.AddDate(0, 0, -1)}
	case PeriodYear:
		return dateutil.DateRange{
			Start: time.Date(today.Year()-1, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(today.Year()-1, 12, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		return dateutil.DateRange{Start: sunday.AddDate(0, 0, -7), End: sunday.AddDate(0, 0, -1)}
	}
}

// RangeForAnchor returns the period that contains anchor.
func RangeForAnchor(p Period, anchor time.Time) dateutil.DateRange {
	day := dateutil.Date(anchor)
	sunday, saturday := dateutil.WeekRange(day)

	switch p {
	case PeriodDay:
		return dateutil.DateRange{Start: day, End: day}
	case PeriodTwoWeeks:
		return dateutil.DateRange{Start: sunday, End: saturday.AddDate(0, 0, 7)}
	case PeriodMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return dateutil.DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	case PeriodYear:
		return dateutil.DateRange{
			Start: time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(day.Year(), 12, 31, 0, 0, 0, 0, time.UTC),
		}
	default:
		return dateutil.DateRange{Start: sunday, End: saturday}
	}
}
