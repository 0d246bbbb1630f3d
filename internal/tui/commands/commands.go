// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bnapp/internal/apply"
	"github.com/javiermolinar/bnapp/internal/event"
)

// SnapshotMsg carries a fresh store snapshot.
type SnapshotMsg struct {
	Snap *event.Snapshot
}

// SubscriptionClosedMsg is sent when the store stops delivering snapshots.
type SubscriptionClosedMsg struct{}

// HolidayMsg reports whether a day is marked as a holiday.
type HolidayMsg struct {
	DateKey string
	Holiday bool
}

// AppliedMsg is sent after a batch of writes finished.
type AppliedMsg struct {
	Report apply.Report
	Status string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg sets a temporary status line.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// WaitForSnapshot blocks until the subscription delivers the next snapshot.
func WaitForSnapshot(sub <-chan *event.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-sub
		if !ok {
			return SubscriptionClosedMsg{}
		}
		return SnapshotMsg{Snap: snap}
	}
}

// LoadHoliday looks up the holiday flag of dateKey.
func LoadHoliday(store event.Reader, dateKey string) tea.Cmd {
	return func() tea.Msg {
		holiday, err := store.Holiday(context.Background(), dateKey)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading holiday flag: %w", err)}
		}
		return HolidayMsg{DateKey: dateKey, Holiday: holiday}
	}
}

// Apply runs cmds and reports status on success. The new state arrives
// through the subscription.
func Apply(runner *apply.Runner, cmds []event.Command, status string) tea.Cmd {
	return func() tea.Msg {
		return AppliedMsg{Report: runner.Run(context.Background(), cmds), Status: status}
	}
}

// Copy writes text to the system clipboard.
func Copy(text, status string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copy failed: %w", err)}
		}
		return StatusMsg{Msg: status}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
