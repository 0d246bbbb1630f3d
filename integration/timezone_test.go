package integration

import (
	"context"
	"testing"
	"time"

	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/reminder"
)

func TestTodayFollowsHouseholdZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	// 22:30 UTC on Saturday is already Sunday in Jerusalem.
	now := time.Date(2025, 1, 4, 22, 30, 0, 0, time.UTC)
	if got := dateutil.Today(now, loc); got != "2025-01-05" {
		t.Errorf("Today = %q, want 2025-01-05", got)
	}
	if got := dateutil.Today(now, time.UTC); got != "2025-01-04" {
		t.Errorf("Today in UTC = %q, want 2025-01-04", got)
	}
}

func TestReminderAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	store := openStore(t)

	// Clocks move forward on Friday 2025-03-28; a 09:00 event that day is
	// at 06:00 UTC, not 07:00.
	ev := newEvent("clinic", event.OwnerShared, "Clinic", "2025-03-28", "09:00", "09:30")
	ev.ReminderMinutes = 60
	mustRun(t, store, []event.Command{event.SetEvent(ev)})

	at, ok := reminder.RemindAt(ev, loc)
	if !ok {
		t.Fatal("expected a reminder time")
	}
	want := time.Date(2025, 3, 28, 5, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Fatalf("RemindAt = %s, want %s", at.UTC(), want)
	}

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	due := reminder.Due(snap, []string{"2025-03-28"}, want.Add(-10*time.Second), 0, time.Minute, loc)
	if len(due) != 1 || due[0].Event.ID != "clinic" {
		t.Fatalf("expected the clinic reminder to be due, got %+v", due)
	}
}
