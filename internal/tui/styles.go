package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/bnapp/internal/event"
	"github.com/javiermolinar/bnapp/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle   lipgloss.Style
	HeaderStyle  lipgloss.Style
	HolidayStyle lipgloss.Style
	SummaryStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	FreeStyle    lipgloss.Style
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
	PromptStyle  lipgloss.Style

	CellStyle     lipgloss.Style
	HeadCellStyle lipgloss.Style
	SelectedStyle lipgloss.Style
	CurrentStyle  lipgloss.Style
	DoneStyle     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	cell := lipgloss.NewStyle().Foreground(p.Fg).Padding(0, 1)

	return &Styles{
		palette: p,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		HeaderStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Padding(0, 1),
		HolidayStyle: lipgloss.NewStyle().
			Foreground(p.TextOnWarning).
			Background(p.Warning).
			Padding(0, 1),
		SummaryStyle: lipgloss.NewStyle().Foreground(p.Accent),
		MutedStyle:   lipgloss.NewStyle().Foreground(p.FgMuted),
		FreeStyle:    lipgloss.NewStyle().Foreground(p.Shared),
		StatusStyle:  lipgloss.NewStyle().Foreground(p.Current),
		ErrorStyle:   lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		PromptStyle:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true),

		CellStyle:     cell,
		HeadCellStyle: cell.Foreground(p.FgMuted).Bold(true),
		SelectedStyle: cell.Background(p.BgSelection).Bold(true),
		CurrentStyle:  cell.Foreground(p.Current).Bold(true),
		DoneStyle:     cell.Foreground(p.FgMuted).Strikethrough(true),
	}
}

// OwnerColor returns the accent color of owner.
func (s *Styles) OwnerColor(owner event.Owner) lipgloss.Color {
	switch owner {
	case event.OwnerA:
		return s.palette.UserA
	case event.OwnerB:
		return s.palette.UserB
	default:
		return s.palette.Shared
	}
}

// OwnerStyle renders a label in the owner's color.
func (s *Styles) OwnerStyle(owner event.Owner) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.OwnerColor(owner)).Bold(true)
}
