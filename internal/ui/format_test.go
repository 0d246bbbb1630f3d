package ui

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/javiermolinar/bnapp/internal/event"
)

func bufioReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h30m"},
		{600, "10h"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a much longer title", 10, "a much ..."},
		{"שבת שלום לכולם", 8, "שבת ש..."},
		{"tiny", 3, "tiny"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"0190f3a2-7c1e-7d3a-9b1c-3f2a9c1b7e0d", "3f2a9c1b7e0d"},
		{"0190f3a2-7c1e-7d3a-9b1c-3f2a9c1b7e0d_2024-03-10", "0190f3a2-7c1e-7d3a-9b1c-3f2a9c1b7e0d_2024-03-10"},
		{"evt-1", "evt-1"},
	}
	for _, tc := range tests {
		if got := shortID(tc.id); got != tc.want {
			t.Errorf("shortID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, maxValue float64
		want            string
	}{
		{0, 10, "░░░░░"},
		{5, 10, "██░░░"},
		{10, 10, "█████"},
		{20, 10, "█████"},
		{3, 0, "░░░░░"},
	}
	for _, tc := range tests {
		if got := Bar(tc.value, tc.maxValue, 5); got != tc.want {
			t.Errorf("Bar(%v, %v) = %q, want %q", tc.value, tc.maxValue, got, tc.want)
		}
	}
}

func TestPrintEventRow(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	ev := event.Event{
		ID: "evt-1", Kind: event.KindTask, Owner: event.OwnerShared, Title: "Groceries",
		DateKey: "2024-03-10", Duration: 45, Completed: true, ReminderMinutes: 15,
	}
	PrintEventRow(&buf, ev, "Shared", 20)

	out := buf.String()
	for _, want := range []string{"✓", "45m", "Groceries", "Shared", "[task]", "⏰15m", "evt-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("row missing %q: %q", want, out)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected a single line, got %q", out)
	}
}

func TestPrintInsightWrapped(t *testing.T) {
	DisableColor()

	var buf bytes.Buffer
	PrintInsightWrapped(&buf, "# Week\n- first point\n```\ncode\n```\n1. numbered item", 40)

	out := buf.String()
	if strings.Contains(out, "code") || strings.Contains(out, "```") {
		t.Errorf("code blocks should be stripped: %q", out)
	}
	for _, want := range []string{"  Week", "    • first point", "  1. numbered item"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}
