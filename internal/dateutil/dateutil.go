// Package dateutil converts between calendar dates, date keys ("YYYY-MM-DD")
// and the relative date words accepted on the command line.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Undated is the date key of records without a concrete date.
const Undated = "undated"

// KeyLayout is the layout of a date key.
const KeyLayout = "2006-01-02"

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrDateInPast         = errors.New("cannot schedule in the past")
)

var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a lower or mixed case English weekday name.
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdayMap[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate can be empty (defaults to today) or in YYYY-MM-DD format.
// endDate can be empty (defaults to startDate).
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseDate(endDate)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}
	return &DateRange{Start: start, End: end}, nil
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24+0.5) + 1
}

// Keys returns the date keys of every day in the range, in order.
func (r DateRange) Keys() []string {
	var keys []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		keys = append(keys, Key(d))
	}
	return keys
}

// Contains reports whether the date key falls inside the range.
func (r DateRange) Contains(dateKey string) bool {
	return dateKey >= Key(r.Start) && dateKey <= Key(r.End)
}

// ParseDate parses a date string in YYYY-MM-DD format into UTC midnight.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return Date(time.Now()), nil
	}
	t, err := time.Parse(KeyLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// Key formats the calendar date of t as a date key, in t's own location.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// Today returns the date key of the current day in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return Key(now)
}

// IsUndated reports whether dateKey denotes the undated bucket.
func IsUndated(dateKey string) bool {
	return dateKey == "" || dateKey == Undated
}

// IsDateKey reports whether s is a well-formed calendar date key.
func IsDateKey(s string) bool {
	if len(s) != len(KeyLayout) {
		return false
	}
	_, err := time.Parse(KeyLayout, s)
	return err == nil
}

// AddDays shifts a date key by n days. It returns the input unchanged when
// the key is not a calendar date.
func AddDays(dateKey string, n int) string {
	t, err := time.Parse(KeyLayout, dateKey)
	if err != nil {
		return dateKey
	}
	return Key(t.AddDate(0, 0, n))
}

// Date returns the calendar date of t as UTC midnight.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekRange returns the Sunday and Saturday of the week containing t.
func WeekRange(t time.Time) (sunday, saturday time.Time) {
	t = TruncateToDay(t)
	sunday = t.AddDate(0, 0, -int(t.Weekday()))
	saturday = sunday.AddDate(0, 0, 6)
	return sunday, saturday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "next-week"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday"
//
// All inputs are case-insensitive. The result is the calendar date at UTC
// midnight. Returns ErrDateInPast for absolute dates before relativeTo.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := Date(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		if target, ok := weekdayMap[name]; ok {
			return nextWeekday(today, target), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if target, ok := weekdayMap[input]; ok {
		return nextWeekday(today, target), nil
	}

	result, err := time.Parse(KeyLayout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if result.Before(today) {
		return time.Time{}, ErrDateInPast
	}
	return result, nil
}

// nextWeekday returns the next occurrence of target strictly after today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
