package scheduler

import (
	"slices"
	"testing"

	"github.com/javiermolinar/bnapp/internal/event"
)

const day = "2025-01-10"

func ev(id string, owner event.Owner, start, end string) event.Event {
	return event.Event{ID: id, Kind: event.KindEvent, Owner: owner, Title: id, DateKey: day, StartTime: start, EndTime: end}
}

func iv(start, end string) Interval {
	s, _ := event.TimeToMinutes(start)
	e, _ := event.TimeToMinutes(end)
	return Interval{Start: s, End: e}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []Interval
		want []Interval
	}{
		{name: "empty", in: nil, want: nil},
		{
			name: "touching intervals merge",
			in:   []Interval{iv("09:00", "10:00"), iv("10:00", "11:00")},
			want: []Interval{iv("09:00", "11:00")},
		},
		{
			name: "unsorted overlapping",
			in:   []Interval{iv("13:00", "14:00"), iv("09:00", "10:30"), iv("10:00", "10:15")},
			want: []Interval{iv("09:00", "10:30"), iv("13:00", "14:00")},
		},
		{
			name: "contained interval",
			in:   []Interval{iv("09:00", "12:00"), iv("10:00", "11:00")},
			want: []Interval{iv("09:00", "12:00")},
		},
		{
			name: "one minute gap stays apart",
			in:   []Interval{iv("09:00", "10:00"), iv("10:01", "11:00")},
			want: []Interval{iv("09:00", "10:00"), iv("10:01", "11:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIntervals(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("MergeIntervals() = %v, want %v", got, tt.want)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Start <= got[i-1].End {
					t.Errorf("merged intervals %v and %v touch or overlap", got[i-1], got[i])
				}
			}
		})
	}
}

func TestDayLoad_FreeSlotsAroundBusyBlock(t *testing.T) {
	s := Default()
	snap := event.FromEvents(
		ev("a", event.OwnerA, "09:00", "10:00"),
		ev("b", event.OwnerA, "10:00", "11:00"),
	)

	load := s.DayLoad(snap, day, event.OwnerA)

	if load.TotalBusyMinutes != 120 {
		t.Errorf("TotalBusyMinutes = %d, want 120", load.TotalBusyMinutes)
	}
	wantBusy := []Interval{iv("09:00", "11:00")}
	if !slices.Equal(load.Busy, wantBusy) {
		t.Errorf("Busy = %v, want %v", load.Busy, wantBusy)
	}
	wantFree := []Interval{iv("08:00", "09:00"), iv("11:00", "22:00")}
	if !slices.Equal(load.FreeSlots, wantFree) {
		t.Errorf("FreeSlots = %v, want %v", load.FreeSlots, wantFree)
	}
}

func TestDayLoad_OwnershipFilter(t *testing.T) {
	s := Default()
	snap := event.FromEvents(
		ev("a", event.OwnerA, "09:00", "10:00"),
		ev("b", event.OwnerB, "12:00", "13:00"),
		ev("c", event.OwnerShared, "18:00", "19:00"),
	)

	tests := []struct {
		user event.Owner
		want int
	}{
		{event.OwnerA, 120},
		{event.OwnerB, 120},
		{event.OwnerShared, 180},
	}
	for _, tt := range tests {
		t.Run(string(tt.user), func(t *testing.T) {
			if got := s.DayLoad(snap, day, tt.user).TotalBusyMinutes; got != tt.want {
				t.Errorf("TotalBusyMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDayLoad_IgnoresUntimedAndInvalid(t *testing.T) {
	s := Default()
	snap := event.FromEvents(
		ev("a", event.OwnerA, "09:00", ""),
		ev("b", event.OwnerA, "bad", "10:00"),
		ev("c", event.OwnerA, "12:00", "11:00"),
	)
	load := s.DayLoad(snap, day, event.OwnerA)
	if load.TotalBusyMinutes != 0 || len(load.Busy) != 0 {
		t.Errorf("got busy %v", load.Busy)
	}
	if !slices.Equal(load.FreeSlots, []Interval{iv("08:00", "22:00")}) {
		t.Errorf("FreeSlots = %v", load.FreeSlots)
	}
}

func TestFreeSlots_MinimumWidth(t *testing.T) {
	busy := []Interval{iv("08:20", "09:00"), iv("09:29", "21:40")}
	got := FreeSlots(busy, 8*60, 22*60, 30)
	// 08:00-08:20 is 20 minutes, 09:00-09:29 is 29 minutes, 21:40-22:00 is 20 minutes.
	if len(got) != 0 {
		t.Errorf("FreeSlots() = %v, want none", got)
	}

	got = FreeSlots([]Interval{iv("07:00", "08:30"), iv("21:00", "23:00")}, 8*60, 22*60, 30)
	want := []Interval{iv("08:30", "21:00")}
	if !slices.Equal(got, want) {
		t.Errorf("FreeSlots() = %v, want %v", got, want)
	}
}

func TestFreeSlots_WithinWindow(t *testing.T) {
	s := New("09:00", "17:00", 15)
	snap := event.FromEvents(
		ev("a", event.OwnerA, "06:00", "09:30"),
		ev("b", event.OwnerA, "12:00", "12:20"),
		ev("c", event.OwnerA, "16:50", "23:00"),
	)
	load := s.DayLoad(snap, day, event.OwnerA)
	for _, slot := range load.FreeSlots {
		if slot.Start < 9*60 || slot.End > 17*60 {
			t.Errorf("slot %v escapes the window", slot)
		}
		if slot.Minutes() < 15 {
			t.Errorf("slot %v is narrower than the minimum", slot)
		}
		for _, b := range load.Busy {
			if slot.Start < b.End && b.Start < slot.End {
				t.Errorf("slot %v overlaps busy %v", slot, b)
			}
		}
	}
	if len(load.FreeSlots) != 2 {
		t.Errorf("FreeSlots = %v, want 2 slots", load.FreeSlots)
	}
}

func TestNew_Fallbacks(t *testing.T) {
	s := New("bad", "07:00", 0)
	if s.DayStart() != "08:00" || s.DayEnd() != "22:00" || s.MinFree() != DefaultMinFreeSlot {
		t.Errorf("got %s-%s min %d", s.DayStart(), s.DayEnd(), s.MinFree())
	}
}

func TestNextFreeFrom(t *testing.T) {
	s := Default()
	snap := event.FromEvents(ev("a", event.OwnerA, "09:00", "13:00"))
	load := s.DayLoad(snap, day, event.OwnerA)

	tests := []struct {
		name   string
		now    string
		want   Interval
		wantOK bool
	}{
		{name: "early morning", now: "07:00", want: iv("08:00", "09:00"), wantOK: true},
		{name: "clipped and rounded", now: "08:10", want: iv("08:15", "09:00"), wantOK: true},
		{name: "too little left before block", now: "08:40", want: iv("13:00", "22:00"), wantOK: true},
		{name: "afternoon", now: "15:05", want: iv("15:15", "22:00"), wantOK: true},
		{name: "late night", now: "21:50", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, _ := event.TimeToMinutes(tt.now)
			got, ok := s.NextFreeFrom(load, now)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
