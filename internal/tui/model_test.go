package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/bnapp/internal/config"
	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/tui/commands"
)

type fakeStore struct {
	writes []string
	values []any
}

func (f *fakeStore) Snapshot(context.Context) (*event.Snapshot, error) { return event.FromEvents(), nil }
func (f *fakeStore) Goals(context.Context, event.Owner) ([]event.Goal, error) {
	return nil, nil
}
func (f *fakeStore) Holiday(context.Context, string) (bool, error) { return false, nil }

func (f *fakeStore) Set(_ context.Context, path string, value any) error {
	f.writes = append(f.writes, "set "+path)
	f.values = append(f.values, value)
	return nil
}

func (f *fakeStore) Update(_ context.Context, path string, fields event.Fields) error {
	f.writes = append(f.writes, "update "+path)
	f.values = append(f.values, fields)
	return nil
}

func (f *fakeStore) Remove(_ context.Context, path string) error {
	f.writes = append(f.writes, "remove "+path)
	return nil
}

func (f *fakeStore) Subscribe(context.Context) <-chan *event.Snapshot { return nil }
func (f *fakeStore) NewID() string                                    { return "new-id" }
func (f *fakeStore) Close() error                                     { return nil }

func testModel(t *testing.T, store event.Store) Model {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, loc)

	snap := event.FromEvents(
		event.Event{ID: "a", Kind: event.KindEvent, Owner: event.OwnerA, Title: "Dentist", DateKey: "2024-03-10", StartTime: "09:00", EndTime: "10:00", Recurring: event.RecurNone},
		event.Event{ID: "b", Kind: event.KindEvent, Owner: event.OwnerB, Title: "Gym", DateKey: "2024-03-10", StartTime: "18:00", EndTime: "19:00", Recurring: event.RecurNone},
		event.Event{ID: "c", Kind: event.KindTask, Owner: event.OwnerShared, Title: "Buy milk", DateKey: "2024-03-10", Recurring: event.RecurNone},
		event.Event{ID: "d", Kind: event.KindEvent, Owner: event.OwnerA, Title: "Standup", DateKey: "2024-03-11", StartTime: "10:00", EndTime: "10:15", Recurring: event.RecurNone},
	)

	cfg := config.Default()
	cfg.Location.Timezone = "Asia/Jerusalem"
	m := New(store, cfg, event.OwnerA, zerolog.Nop(), WithClock(func() time.Time { return now }), WithSnapshot(snap))
	return *m
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return got, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func titles(events []event.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Title
	}
	return out
}

func TestNew_StartsOnToday(t *testing.T) {
	m := testModel(t, nil)
	if m.dateKey != "2024-03-10" {
		t.Fatalf("dateKey = %q, want 2024-03-10", m.dateKey)
	}
}

func TestDayEvents_FiltersByViewer(t *testing.T) {
	m := testModel(t, nil)

	got := strings.Join(titles(m.dayEvents()), ",")
	if got != "Dentist,Buy milk" {
		t.Fatalf("userA sees %q, want Dentist,Buy milk", got)
	}

	m, _ = press(t, m, runes("u"))
	if m.user != event.OwnerB {
		t.Fatalf("user = %q after switch, want userB", m.user)
	}
	if got := strings.Join(titles(m.dayEvents()), ","); got != "Gym,Buy milk" {
		t.Fatalf("userB sees %q, want Gym,Buy milk", got)
	}

	m, _ = press(t, m, runes("u"))
	if got := len(m.dayEvents()); got != 3 {
		t.Fatalf("shared sees %d records, want 3", got)
	}
}

func TestNavigation(t *testing.T) {
	m := testModel(t, nil)

	m, _ = press(t, m, runes("l"))
	if m.dateKey != "2024-03-11" {
		t.Fatalf("after l dateKey = %q", m.dateKey)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = press(t, m, runes("h"))
	if m.dateKey != "2024-03-09" {
		t.Fatalf("after left, h dateKey = %q", m.dateKey)
	}
	m, _ = press(t, m, runes("t"))
	if m.dateKey != "2024-03-10" {
		t.Fatalf("after t dateKey = %q", m.dateKey)
	}

	m, _ = press(t, m, runes("j"))
	m, _ = press(t, m, runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want clamped at 1", m.cursor)
	}
	m, _ = press(t, m, runes("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
}

func TestQuit(t *testing.T) {
	m := testModel(t, nil)
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestToggleDone(t *testing.T) {
	store := &fakeStore{}
	m := testModel(t, store)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if cmd == nil {
		t.Fatal("expected a write command")
	}
	msg, ok := cmd().(commands.AppliedMsg)
	if !ok {
		t.Fatal("expected AppliedMsg")
	}
	if msg.Status != "Marked done: Dentist" {
		t.Errorf("status = %q", msg.Status)
	}
	if len(store.writes) != 1 || store.writes[0] != "update events/2024-03-10/a" {
		t.Fatalf("unexpected writes %v", store.writes)
	}
	fields := store.values[0].(event.Fields)
	if fields["completed"] != true {
		t.Errorf("completed = %v, want true", fields["completed"])
	}
}

func TestQuickAdd(t *testing.T) {
	store := &fakeStore{}
	m := testModel(t, store)

	m, _ = press(t, m, runes("a"))
	if m.mode != ModeAdd {
		t.Fatal("expected add mode")
	}
	m.input.SetValue("12:00-13:00 Lunch with Dana")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeNormal {
		t.Fatal("expected normal mode after enter")
	}
	if cmd == nil {
		t.Fatal("expected a write command")
	}
	if _, ok := cmd().(commands.AppliedMsg); !ok {
		t.Fatal("expected AppliedMsg")
	}
	if len(store.writes) != 1 || store.writes[0] != "set events/2024-03-10/new-id" {
		t.Fatalf("unexpected writes %v", store.writes)
	}
	ev := store.values[0].(event.Event)
	if ev.Title != "Lunch with Dana" || ev.StartTime != "12:00" || ev.EndTime != "13:00" || ev.Owner != event.OwnerA {
		t.Fatalf("unexpected record %+v", ev)
	}
}

func TestQuickAdd_Escape(t *testing.T) {
	m := testModel(t, nil)
	m, _ = press(t, m, runes("a"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeNormal || cmd != nil {
		t.Fatal("escape should leave add mode without a command")
	}
}

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		input     string
		wantKind  event.Kind
		wantTitle string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"Buy milk", event.KindTask, "Buy milk", "", "", false},
		{"18:00-19:30 Dinner", event.KindEvent, "Dinner", "18:00", "19:30", false},
		{"9:15 Call mom", event.KindEvent, "Call mom", "09:15", "10:15", false},
		{"23:30 Late show", event.KindEvent, "Late show", "23:30", "23:59", false},
		{"18:00-25:00 Party", "", "", "", "", true},
		{"18:00", "", "", "", "", true},
		{"   ", "", "", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			ev, err := parseQuickAdd(tc.input, "2024-03-10", event.OwnerB)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", ev)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.Kind != tc.wantKind || ev.Title != tc.wantTitle || ev.StartTime != tc.wantStart || ev.EndTime != tc.wantEnd {
				t.Errorf("got %s %q %s-%s", ev.Kind, ev.Title, ev.StartTime, ev.EndTime)
			}
			if ev.Owner != event.OwnerB || ev.DateKey != "2024-03-10" {
				t.Errorf("unexpected owner or date %+v", ev)
			}
		})
	}
}

func TestSnapshotMsgClampsCursor(t *testing.T) {
	m := testModel(t, nil)
	m.cursor = 1

	next, _ := m.Update(commands.SnapshotMsg{Snap: event.FromEvents()})
	got := next.(Model)
	if got.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 on an empty day", got.cursor)
	}
}

func TestStatusMessages(t *testing.T) {
	m := testModel(t, nil)

	next, cmd := m.Update(commands.StatusMsg{Msg: "Copied free time"})
	got := next.(Model)
	if got.status != "Copied free time" || cmd == nil {
		t.Fatalf("status = %q, cmd = %v", got.status, cmd)
	}

	next, _ = got.Update(commands.ClearStatusMsg{})
	if next.(Model).status != "" {
		t.Fatal("expected status to clear")
	}
}

func TestView(t *testing.T) {
	prevProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prevProfile)
	})

	m := testModel(t, nil)
	m.width = 100
	m.holidays["2024-03-10"] = true
	out := m.View()

	for _, want := range []string{"Sunday, 10 March 2024", "User A", "(today)", "holiday", "Dentist", "09:00-10:00", "Buy milk", "Daily load: 1h (light day)", "Free: 08:00-09:00  10:00-22:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Gym") {
		t.Errorf("view shows userB's record to userA:\n%s", out)
	}
}

func TestView_Loading(t *testing.T) {
	m := testModel(t, nil)
	m.snap = nil
	if !strings.Contains(m.View(), "Loading") {
		t.Fatal("expected loading placeholder")
	}
}

func TestFreeSlotsText(t *testing.T) {
	m := testModel(t, nil)
	load := m.sched.DayLoad(m.snapshot(), "2024-03-10", event.OwnerA)
	got := freeSlotsText("2024-03-10", load.FreeSlots)
	want := "Free on Sun 10 Mar: 08:00-09:00, 10:00-22:00"
	if got != want {
		t.Fatalf("freeSlotsText = %q, want %q", got, want)
	}
}
