package event

import (
	"errors"
	"testing"

	"github.com/javiermolinar/bnapp/internal/dateutil"
)

func validEvent() Event {
	return Event{
		ID:        "e1",
		Kind:      KindEvent,
		Owner:     OwnerA,
		Title:     "Dentist",
		DateKey:   "2025-01-10",
		StartTime: "09:00",
		EndTime:   "10:00",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr error
	}{
		{name: "valid", mutate: func(*Event) {}},
		{name: "empty title", mutate: func(e *Event) { e.Title = "  " }, wantErr: ErrEmptyTitle},
		{name: "bad kind", mutate: func(e *Event) { e.Kind = "note" }, wantErr: ErrInvalidKind},
		{name: "bad owner", mutate: func(e *Event) { e.Owner = "someone" }, wantErr: ErrInvalidOwner},
		{name: "bad urgency", mutate: func(e *Event) { e.Urgency = "asap" }, wantErr: ErrInvalidUrgency},
		{name: "bad recurrence", mutate: func(e *Event) { e.Recurring = "daily" }, wantErr: ErrInvalidRecurrence},
		{name: "bad date", mutate: func(e *Event) { e.DateKey = "10/01/2025" }, wantErr: dateutil.ErrInvalidDateFormat},
		{name: "undated is fine", mutate: func(e *Event) { e.DateKey = dateutil.Undated; e.StartTime, e.EndTime = "", "" }},
		{name: "bad start", mutate: func(e *Event) { e.StartTime = "9" }, wantErr: ErrInvalidTimeFormat},
		{name: "end equals start", mutate: func(e *Event) { e.EndTime = "09:00" }, wantErr: ErrEndBeforeStart},
		{name: "end before start", mutate: func(e *Event) { e.EndTime = "08:00" }, wantErr: ErrEndBeforeStart},
		{name: "end without start", mutate: func(e *Event) { e.StartTime = "" }, wantErr: ErrEndWithoutStart},
		{name: "start only", mutate: func(e *Event) { e.EndTime = "" }},
		{name: "negative duration", mutate: func(e *Event) { e.Duration = -5 }, wantErr: ErrNegativeDuration},
		{name: "recurring undated", mutate: func(e *Event) { e.Recurring = RecurWeekly; e.DateKey = dateutil.Undated }, wantErr: ErrRecurringUndated},
		{name: "instance of a series", mutate: func(e *Event) { e.Recurring = RecurWeekly; e.IsRecurringInstance = true; e.ParentID = "tpl" }},
		{name: "instance without parent", mutate: func(e *Event) { e.IsRecurringInstance = true }, wantErr: ErrOrphanInstance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvent()
			tt.mutate(&ev)
			err := Validate(ev)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	ev := Normalize(Event{Kind: KindTask, Title: "  Laundry ", Recurring: RecurWeekly, DateKey: "2025-01-10", ParentID: "x"})
	if ev.Title != "Laundry" {
		t.Errorf("Title = %q", ev.Title)
	}
	if ev.Urgency != UrgencyNone {
		t.Errorf("Urgency = %q, want none", ev.Urgency)
	}
	if !ev.IsRecurringParent || ev.ParentID != "" {
		t.Errorf("template flags not set: %+v", ev)
	}

	undated := Normalize(Event{Kind: KindTask, Title: "Call bank"})
	if undated.DateKey != dateutil.Undated || !undated.IsUndated() {
		t.Errorf("DateKey = %q, want undated", undated.DateKey)
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		a, b Owner
		want bool
	}{
		{OwnerA, OwnerA, true},
		{OwnerA, OwnerB, false},
		{OwnerA, OwnerShared, true},
		{OwnerShared, OwnerB, true},
		{OwnerShared, OwnerShared, true},
	}
	for _, tt := range tests {
		if got := Relevant(tt.a, tt.b); got != tt.want {
			t.Errorf("Relevant(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if Relevant(tt.a, tt.b) != Relevant(tt.b, tt.a) {
			t.Errorf("Relevant(%s, %s) is not symmetric", tt.a, tt.b)
		}
	}
}

func TestEventMinutes(t *testing.T) {
	ev := validEvent()
	if got := ev.Minutes(); got != 60 {
		t.Errorf("Minutes() = %d, want 60", got)
	}
	ev.EndTime = ""
	if got := ev.Minutes(); got != 0 {
		t.Errorf("Minutes() without end = %d, want 0", got)
	}
	if ev.HasTimes() {
		t.Error("HasTimes() = true without end time")
	}
}

func TestMerge(t *testing.T) {
	ev := validEvent()
	merged, err := ev.Merge(Fields{"completed": true, "completedAt": int64(1700000000000), "title": "Dentist (moved)"})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if !merged.Completed || merged.CompletedAt != 1700000000000 || merged.Title != "Dentist (moved)" {
		t.Errorf("Merge() = %+v", merged)
	}
	if ev.Completed {
		t.Error("Merge() mutated the receiver")
	}

	cleared, err := merged.Merge(Fields{"completed": false, "completedAt": nil})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if cleared.Completed || cleared.CompletedAt != 0 {
		t.Errorf("Merge() did not clear: %+v", cleared)
	}
}

func TestMerge_WrongType(t *testing.T) {
	ev := validEvent()

	tests := []struct {
		name   string
		fields Fields
	}{
		{"bool as string", Fields{"completed": "yes", "title": "New"}},
		{"number as string", Fields{"reminderMinutes": "thirty"}},
		{"title as number", Fields{"title": 42}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ev.Merge(tc.fields)
			if !errors.Is(err, ErrInvalidFields) {
				t.Fatalf("expected ErrInvalidFields, got %v", err)
			}
			if got != ev {
				t.Errorf("failed merge should return the record unchanged, got %+v", got)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		path          string
		coll, key, id string
		wantOK        bool
	}{
		{"events/2025-01-10/e1", CollectionEvents, "2025-01-10", "e1", true},
		{"goals/userA/g1", CollectionGoals, "userA", "g1", true},
		{"days/2025-01-10/holiday", CollectionDays, "2025-01-10", "holiday", true},
		{"shopping/list/1", "", "", "", false},
		{"events/2025-01-10", "", "", "", false},
	}
	for _, tt := range tests {
		coll, key, id, ok := ParsePath(tt.path)
		if ok != tt.wantOK || coll != tt.coll || key != tt.key || id != tt.id {
			t.Errorf("ParsePath(%q) = %q %q %q %v", tt.path, coll, key, id, ok)
		}
	}
}

func TestMoveCommands(t *testing.T) {
	ev := validEvent()

	cmds := MoveCommands(ev, "2025-01-12", "14:00", "15:00")
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if cmds[0].Op != OpSet || cmds[0].Path != "events/2025-01-12/e1" || cmds[0].Record.StartTime != "14:00" {
		t.Errorf("first command = %+v", cmds[0])
	}
	if cmds[1].Op != OpRemove || cmds[1].Path != "events/2025-01-10/e1" {
		t.Errorf("second command = %+v", cmds[1])
	}

	same := MoveCommands(ev, ev.DateKey, "11:00", "12:00")
	if len(same) != 1 {
		t.Errorf("same-day move produced %d commands, want 1", len(same))
	}
}
