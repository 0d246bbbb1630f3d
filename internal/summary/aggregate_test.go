package summary

import (
	"testing"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

func rec(id, dk string, owner event.Owner, title, start, end string) event.Event {
	return event.Event{ID: id, Kind: event.KindEvent, Owner: owner, Title: title, DateKey: dk, StartTime: start, EndTime: end}
}

func mustRange(t *testing.T, start, end string) dateutil.DateRange {
	t.Helper()
	rng, err := dateutil.NewDateRange(start, end)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return *rng
}

func TestAggregate_CountsCategoriesAndCompleted(t *testing.T) {
	done := rec("d", "2024-03-04", event.OwnerA, "Gym", "18:00", "19:30")
	done.Completed = true

	snap := event.FromEvents(
		rec("s", "2024-03-04", event.OwnerA, "Sleep", "00:00", "08:00"),
		rec("w", "2024-03-04", event.OwnerA, "work", "08:00", "17:00"),
		rec("m", "2024-03-04", event.OwnerA, "Meal", "17:00", "18:00"),
		done,
		rec("open", "2024-03-04", event.OwnerA, "Reading", "20:00", "21:00"),
		rec("other", "2024-03-04", event.OwnerB, "Sleep", "00:00", "07:00"),
		rec("untimed", "2024-03-04", event.OwnerA, "Sleep", "", ""),
		rec("outside", "2024-03-06", event.OwnerA, "Sleep", "00:00", "08:00"),
	)

	totals := Aggregate(snap, mustRange(t, "2024-03-04", "2024-03-05"), event.OwnerA, DefaultCategories())

	if totals.SleepMinutes != 480 {
		t.Errorf("SleepMinutes = %d, want 480", totals.SleepMinutes)
	}
	if totals.WorkMinutes != 540 {
		t.Errorf("WorkMinutes = %d, want 540", totals.WorkMinutes)
	}
	if totals.Other["Meal"] != 60 || totals.Other["Gym"] != 90 {
		t.Errorf("Other = %v", totals.Other)
	}
	if _, ok := totals.Other["Reading"]; ok {
		t.Error("open non-category event should not count")
	}
	if want := 2*1440 - (480 + 540 + 60 + 90); totals.FreeMinutes != want {
		t.Errorf("FreeMinutes = %d, want %d", totals.FreeMinutes, want)
	}
}

func TestAggregate_DeduplicatesBySignature(t *testing.T) {
	snap := event.FromEvents(
		rec("a", "2024-03-04", event.OwnerA, "Sleep", "00:00", "08:00"),
		rec("b", "2024-03-04", event.OwnerA, "Sleep", "00:00", "08:00"),
		rec("c", "2024-03-05", event.OwnerA, "Sleep", "00:00", "08:00"),
	)
	totals := Aggregate(snap, mustRange(t, "2024-03-04", "2024-03-05"), event.OwnerA, DefaultCategories())
	if totals.SleepMinutes != 960 {
		t.Errorf("SleepMinutes = %d, want 960 (one per day)", totals.SleepMinutes)
	}
}

func TestAggregate_SharedEventsCountForBoth(t *testing.T) {
	dinner := rec("d", "2024-03-04", event.OwnerShared, "Family dinner", "19:00", "20:00")
	dinner.Completed = true
	snap := event.FromEvents(dinner)
	rng := mustRange(t, "2024-03-04", "2024-03-04")

	for _, user := range []event.Owner{event.OwnerA, event.OwnerB} {
		totals := Aggregate(snap, rng, user, DefaultCategories())
		if totals.Other["Family dinner"] != 60 {
			t.Errorf("%s: Other = %v", user, totals.Other)
		}
	}
}

func TestAggregate_FreeTimeNeverNegative(t *testing.T) {
	var events []event.Event
	for i, title := range []string{"Sleep", "Work", "Meal"} {
		events = append(events, rec(string(rune('a'+i)), "2024-03-04", event.OwnerA, title, "00:00", "23:59"))
	}
	totals := Aggregate(event.FromEvents(events...), mustRange(t, "2024-03-04", "2024-03-04"), event.OwnerA, DefaultCategories())
	if totals.FreeMinutes != 0 {
		t.Errorf("FreeMinutes = %d, want 0", totals.FreeMinutes)
	}
}

func TestCategories_Bucket(t *testing.T) {
	cats := DefaultCategories()
	tests := []struct {
		title string
		want  string
	}{
		{"Sleep", BucketSleep},
		{"  sleep ", BucketSleep},
		{"שינה", BucketSleep},
		{"WORK", BucketWork},
		{"Meal", BucketMeal},
		{"Gym", ""},
	}
	for _, tt := range tests {
		if got := cats.Bucket(tt.title); got != tt.want {
			t.Errorf("Bucket(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
