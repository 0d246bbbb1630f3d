package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/bnapp/internal/assistant"
	"github.com/javiermolinar/bnapp/internal/dateutil"
	"github.com/javiermolinar/bnapp/internal/event"
)

const (
	defaultWidth  = 80
	minTitleWidth = 12
)

// View renders the day view.
func (m Model) View() string {
	if m.snap == nil {
		return m.styles.MutedStyle.Render("Loading...")
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderHeader(),
		m.renderSummary(),
		m.renderEvents(width),
		m.renderFree(),
	}
	if m.mode == ModeAdd {
		sections = append(sections, m.styles.PromptStyle.Render("Add: ")+m.input.View())
	}
	if m.status != "" {
		sections = append(sections, m.styles.StatusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	day := m.dateKey
	if t, err := dateutil.ParseDate(m.dateKey); err == nil {
		day = t.Format("Monday, 2 January 2006")
	}

	parts := []string{
		m.styles.TitleStyle.Render("bnapp"),
		m.styles.HeaderStyle.Render(day),
		m.styles.OwnerStyle(m.user).Render(m.config.UserName(m.user)),
	}
	if m.dateKey == m.today() {
		parts = append(parts, m.styles.MutedStyle.Render("(today)"))
	}
	if m.holidays[m.dateKey] {
		parts = append(parts, m.styles.HolidayStyle.Render("holiday"))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderSummary() string {
	load := m.sched.DayLoad(m.snapshot(), m.dateKey, m.user)
	return m.styles.SummaryStyle.Render(assistant.Summarize(load).String())
}

func (m Model) renderFree() string {
	load := m.sched.DayLoad(m.snapshot(), m.dateKey, m.user)
	if len(load.FreeSlots) == 0 {
		return m.styles.MutedStyle.Render("No free time")
	}
	slots := make([]string, len(load.FreeSlots))
	for i, s := range load.FreeSlots {
		slots[i] = s.String()
	}
	return m.styles.FreeStyle.Render("Free: " + strings.Join(slots, "  "))
}

func (m Model) renderEvents(width int) string {
	events := m.dayEvents()
	if len(events) == 0 {
		return m.styles.MutedStyle.Render("\n  Nothing planned\n")
	}

	// Fixed columns: mark, time and owner, each with one cell of padding per side.
	titleWidth := max(width-4-13-10-8, minTitleWidth)

	rows := make([][]string, len(events))
	for i, ev := range events {
		rows[i] = []string{
			mark(ev),
			timeSpan(ev),
			m.config.UserName(ev.Owner),
			ansi.Truncate(ev.Title, titleWidth, "…"),
		}
	}

	current := m.currentIndex(events)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("", "Time", "Who", "Title").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return m.styles.HeadCellStyle
			}
			idx := row - table.HeaderRow - 1
			if idx < 0 || idx >= len(events) {
				return m.styles.CellStyle
			}
			ev := events[idx]
			style := m.styles.CellStyle
			switch {
			case idx == m.cursor:
				style = m.styles.SelectedStyle
			case ev.Completed:
				style = m.styles.DoneStyle
			case idx == current:
				style = m.styles.CurrentStyle
			}
			if col == 2 && !ev.Completed {
				style = style.Foreground(m.styles.OwnerColor(ev.Owner))
			}
			return style
		})

	return t.String()
}

// currentIndex returns the index of the first timed record happening now,
// or -1 when the shown day is not today.
func (m Model) currentIndex(events []event.Event) int {
	if m.dateKey != m.today() {
		return -1
	}
	now := m.now().In(m.config.TimeLocation())
	minute := now.Hour()*60 + now.Minute()
	for i, ev := range events {
		start, ok1 := event.TimeToMinutes(ev.StartTime)
		end, ok2 := event.TimeToMinutes(ev.EndTime)
		if ok1 && ok2 && start <= minute && minute < end {
			return i
		}
	}
	return -1
}

func mark(ev event.Event) string {
	switch {
	case ev.Completed:
		return "✓"
	case ev.IsTask():
		return "○"
	case ev.IsRecurringInstance:
		return "↻"
	default:
		return "•"
	}
}

func timeSpan(ev event.Event) string {
	switch {
	case ev.StartTime != "" && ev.EndTime != "":
		return fmt.Sprintf("%s-%s", ev.StartTime, ev.EndTime)
	case ev.StartTime != "":
		return ev.StartTime
	case ev.Duration > 0:
		return fmt.Sprintf("~%dm", ev.Duration)
	default:
		return "any time"
	}
}
