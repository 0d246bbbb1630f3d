package summary

import (
	"testing"
	"time"

	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/scheduler"
)

func TestLoadSeries(t *testing.T) {
	snap := event.FromEvents(
		rec("a", "2024-03-12", event.OwnerA, "Dentist", "09:00", "10:30"),
		rec("b", "2024-03-13", event.OwnerA, "Call", "09:00", "10:00"),
		rec("c", "2024-03-13", event.OwnerShared, "Lunch", "09:30", "11:00"),
		rec("d", "2024-03-13", event.OwnerB, "Gym", "12:00", "14:00"),
	)

	got := LoadSeries(snap, scheduler.Default(), event.OwnerA, time.Date(2024, 3, 13, 20, 0, 0, 0, time.UTC), 3)
	want := []DayPoint{
		{DateKey: "2024-03-11", Hours: 0},
		{DateKey: "2024-03-12", Hours: 1.5},
		{DateKey: "2024-03-13", Hours: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if LoadSeries(snap, scheduler.Default(), event.OwnerA, time.Now(), 0) != nil {
		t.Error("zero days should return nil")
	}
}
