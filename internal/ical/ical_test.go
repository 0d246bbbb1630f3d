package ical

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/bnapp/internal/event"
)

func fixture() *event.Snapshot {
	return event.FromEvents(
		event.Event{ID: "a", Kind: event.KindEvent, Owner: event.OwnerA, Title: "Dentist", Address: "Herzl 5", DateKey: "2024-03-10", StartTime: "09:00", EndTime: "10:00"},
		event.Event{ID: "b", Kind: event.KindTask, Owner: event.OwnerShared, Title: "Pay rent", DateKey: "2024-03-11"},
		event.Event{ID: "c", Kind: event.KindEvent, Owner: event.OwnerB, Title: "Yoga", DateKey: "2024-03-10", StartTime: "18:00", EndTime: "19:00"},
		event.Event{ID: "d", Kind: event.KindEvent, Owner: event.OwnerA, Title: "Late", DateKey: "2024-03-20", StartTime: "09:00", EndTime: "10:00"},
		event.Event{ID: "default_sleep_userA_2024-03-10", Kind: event.KindEvent, Owner: event.OwnerA, Title: "Sleep", DateKey: "2024-03-10", StartTime: "00:00", EndTime: "08:00", IsDefault: true},
		event.Event{ID: "t", Kind: event.KindEvent, Owner: event.OwnerA, Title: "Run", DateKey: "2024-03-10", StartTime: "06:00", EndTime: "07:00", Recurring: event.RecurWeekly, IsRecurringParent: true},
		event.Event{ID: "u", Kind: event.KindTask, Owner: event.OwnerA, Title: "Someday", DateKey: "undated"},
	)
}

func TestExport(t *testing.T) {
	out, err := Export(fixture(), event.OwnerA, "2024-03-10", "2024-03-16", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:a@bnapp",
		"SUMMARY:Dentist",
		"DTSTART:20240310T090000Z",
		"DTEND:20240310T100000Z",
		"UID:b@bnapp",
		"DTSTART;VALUE=DATE:20240311",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q", want)
		}
	}
	for _, unwanted := range []string{"Yoga", "Late", "Sleep", "UID:t@bnapp", "Someday"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("export should not contain %q", unwanted)
		}
	}
}

func TestExport_InvalidRange(t *testing.T) {
	if _, err := Export(fixture(), event.OwnerA, "2024-03-10", "2024-03-01", time.UTC); err == nil {
		t.Error("expected error for an inverted range")
	}
}

func TestParse_ReadsExport(t *testing.T) {
	jerusalem, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skip("tzdata not available")
	}
	out, err := Export(fixture(), event.OwnerA, "2024-03-10", "2024-03-11", jerusalem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := Parse(strings.NewReader(out), event.OwnerB, jerusalem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	byID := map[string]event.Event{}
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	dentist := byID["a"]
	if dentist.DateKey != "2024-03-10" || dentist.StartTime != "09:00" || dentist.EndTime != "10:00" {
		t.Errorf("timed event not restored in local time: %+v", dentist)
	}
	if dentist.Address != "Herzl 5" || dentist.Owner != event.OwnerB {
		t.Errorf("unexpected fields %+v", dentist)
	}
	rent := byID["b"]
	if rent.DateKey != "2024-03-11" || rent.StartTime != "" || rent.Kind != event.KindTask {
		t.Errorf("all-day task not restored: %+v", rent)
	}
}

func TestParse_ForeignCalendar(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//other//EN",
		"BEGIN:VEVENT",
		"UID:123@example.com",
		"DTSTAMP:20240301T000000Z",
		"DTSTART:20240312T160000Z",
		"DTEND:20240312T170000Z",
		"SUMMARY:Parents meeting",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc), event.OwnerShared, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.ID != "" {
		t.Errorf("foreign uids should not become ids, got %q", got.ID)
	}
	if got.Title != "Parents meeting" || got.StartTime != "16:00" || got.EndTime != "17:00" || got.Owner != event.OwnerShared {
		t.Errorf("unexpected event %+v", got)
	}
	if err := event.Validate(got); err != nil {
		t.Errorf("parsed event should validate: %v", err)
	}
}

func TestParse_Empty(t *testing.T) {
	doc := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//x//EN\r\nEND:VCALENDAR\r\n"
	_, err := Parse(strings.NewReader(doc), event.OwnerA, time.UTC)
	if !errors.Is(err, ErrNoEvents) {
		t.Errorf("expected ErrNoEvents, got %v", err)
	}
}
