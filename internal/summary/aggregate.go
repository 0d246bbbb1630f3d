package summary

import (
	"slices"
	"strings"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

// Bucket names of the fixed categories.
const (
	BucketSleep = "sleep"
	BucketWork  = "work"
	BucketMeal  = "meal"
)

// Categories maps event titles onto the fixed buckets. Matching ignores
// case and surrounding whitespace. Events in these categories are counted
// whether or not they were marked completed.
type Categories struct {
	Sleep []string
	Work  []string
	Meal  []string
}

// DefaultCategories returns the built-in category titles.
func DefaultCategories() Categories {
	return Categories{
		Sleep: []string{"Sleep", "שינה"},
		Work:  []string{"Work", "עבודה"},
		Meal:  []string{"Meal", "אוכל + מקלחת"},
	}
}

// Bucket returns the fixed bucket of title, or "" for other titles.
func (c Categories) Bucket(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	match := func(titles []string) bool {
		return slices.ContainsFunc(titles, func(s string) bool {
			return strings.ToLower(strings.TrimSpace(s)) == t
		})
	}
	switch {
	case match(c.Sleep):
		return BucketSleep
	case match(c.Work):
		return BucketWork
	case match(c.Meal):
		return BucketMeal
	default:
		return ""
	}
}

// Totals is the time breakdown of one viewer over a date range.
type Totals struct {
	Range        dateutil.DateRange
	Days         int
	SleepMinutes int
	WorkMinutes  int
	// Other holds every counted title outside sleep and work, meals included.
	Other       map[string]int
	FreeMinutes int
}

// CountedMinutes returns the sum of all buckets.
func (t Totals) CountedMinutes() int {
	sum := t.SleepMinutes + t.WorkMinutes
	for _, m := range t.Other {
		sum += m
	}
	return sum
}

// OtherTitles returns the dynamic bucket titles, largest first.
func (t Totals) OtherTitles() []string {
	titles := make([]string, 0, len(t.Other))
	for title := range t.Other {
		titles = append(titles, title)
	}
	slices.SortFunc(titles, func(a, b string) int {
		if t.Other[a] != t.Other[b] {
			return t.Other[b] - t.Other[a]
		}
		return strings.Compare(a, b)
	})
	return titles
}

// Minutes returns the minutes recorded for title.
func (t Totals) Minutes(title string, cats Categories) int {
	switch cats.Bucket(title) {
	case BucketSleep:
		return t.SleepMinutes
	case BucketWork:
		return t.WorkMinutes
	}
	if m, ok := t.Other[title]; ok {
		return m
	}
	for k, m := range t.Other {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(title)) {
			return m
		}
	}
	return 0
}

// Aggregate sums the time user spent per category over rng.
//
// An event counts when it is relevant to user, has both times, and either
// belongs to a fixed category or was completed. Events sharing a signature
// on the same day are counted once. Free time is the rest of the range's
// minutes, never negative.
func Aggregate(snap *event.Snapshot, rng dateutil.DateRange, user event.Owner, cats Categories) Totals {
	totals := Totals{
		Range: rng,
		Days:  rng.Days(),
		Other: make(map[string]int),
	}

	for _, dk := range rng.Keys() {
		seen := make(map[string]bool)
		for _, ev := range snap.Day(dk) {
			if !event.Relevant(ev.Owner, user) {
				continue
			}
			minutes := ev.Minutes()
			if minutes == 0 {
				continue
			}
			bucket := cats.Bucket(ev.Title)
			if bucket == "" && !ev.Completed {
				continue
			}
			sig := ev.Signature()
			if seen[sig] {
				continue
			}
			seen[sig] = true

			switch bucket {
			case BucketSleep:
				totals.SleepMinutes += minutes
			case BucketWork:
				totals.WorkMinutes += minutes
			default:
				totals.Other[strings.TrimSpace(ev.Title)] += minutes
			}
		}
	}

	totals.FreeMinutes = max(0, totals.Days*event.MinutesPerDay-totals.CountedMinutes())
	return totals
}
