package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/bnapp/internal/event"
)

// Color definitions for consistent styling across the UI.
var (
	// Owners: one color per household member, green for shared records
	colorUserA  = color.New(color.FgCyan)
	colorUserB  = color.New(color.FgMagenta)
	colorShared = color.New(color.FgGreen)

	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Warnings: conflicts and goals below target
	colorWarn = color.New(color.FgRed, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatOwner(owner event.Owner, s string) string {
	switch owner {
	case event.OwnerA:
		return colorUserA.Sprint(s)
	case event.OwnerB:
		return colorUserB.Sprint(s)
	default:
		return colorShared.Sprint(s)
	}
}

func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
