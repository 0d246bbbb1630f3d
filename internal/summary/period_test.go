package summary

import (
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr error
	}{
		{"week", PeriodWeek, nil},
		{"", PeriodWeek, nil},
		{"two-weeks", PeriodTwoWeeks, nil},
		{"TWO_WEEKS", PeriodTwoWeeks, nil},
		{"fortnight", "", ErrInvalidPeriod},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestRangeFor(t *testing.T) {
	// Wednesday, March 13, 2024
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		p          Period
		start, end string
		days       int
	}{
		{PeriodDay, "2024-03-12", "2024-03-12", 1},
		{PeriodWeek, "2024-03-03", "2024-03-09", 7},
		{PeriodTwoWeeks, "2024-02-25", "2024-03-09", 14},
		{PeriodMonth, "2024-02-01", "2024-02-29", 29},
		{PeriodYear, "2023-01-01", "2023-12-31", 365},
	}
	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			rng := RangeFor(tt.p, now)
			if dateutil.Key(rng.Start) != tt.start || dateutil.Key(rng.End) != tt.end {
				t.Errorf("got %s..%s, want %s..%s", dateutil.Key(rng.Start), dateutil.Key(rng.End), tt.start, tt.end)
			}
			if rng.Days() != tt.days {
				t.Errorf("Days() = %d, want %d", rng.Days(), tt.days)
			}
		})
	}
}

func TestRangeFor_JanuaryRollsBackYear(t *testing.T) {
	rng := RangeFor(PeriodMonth, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
	if dateutil.Key(rng.Start) != "2024-12-01" || dateutil.Key(rng.End) != "2024-12-31" {
		t.Errorf("got %s..%s", dateutil.Key(rng.Start), dateutil.Key(rng.End))
	}
}

func TestRangeForAnchor(t *testing.T) {
	anchor := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		p          Period
		start, end string
	}{
		{PeriodDay, "2024-03-13", "2024-03-13"},
		{PeriodWeek, "2024-03-10", "2024-03-16"},
		{PeriodTwoWeeks, "2024-03-10", "2024-03-23"},
		{PeriodMonth, "2024-03-01", "2024-03-31"},
		{PeriodYear, "2024-01-01", "2024-12-31"},
	}
	for _, tt := range tests {
		rng := RangeForAnchor(tt.p, anchor)
		if dateutil.Key(rng.Start) != tt.start || dateutil.Key(rng.End) != tt.end {
			t.Errorf("%s: got %s..%s", tt.p, dateutil.Key(rng.Start), dateutil.Key(rng.End))
		}
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		p    Period
		want float64
	}{
		{PeriodWeek, 1},
		{PeriodTwoWeeks, 2},
		{PeriodMonth, 4.345},
		{PeriodYear, 52},
	}
	for _, tt := range tests {
		if got := tt.p.Multiplier(); got != tt.want {
			t.Errorf("%s.Multiplier() = %v, want %v", tt.p, got, tt.want)
		}
	}
}
