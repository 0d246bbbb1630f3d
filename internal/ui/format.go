package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/bnapp/internal/event"
)

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// statusSymbol returns the completion indicator of a record.
func statusSymbol(done bool) string {
	if done {
		return formatStats("✓")
	}
	return "○"
}

// timeSpan renders the time columns of a record.
func timeSpan(ev event.Event) string {
	switch {
	case ev.StartTime != "" && ev.EndTime != "":
		return ev.StartTime + "-" + ev.EndTime
	case ev.StartTime != "":
		return ev.StartTime + "      "
	case ev.Duration > 0:
		return fmt.Sprintf("%-11s", FormatDuration(ev.Duration))
	default:
		return "all day    "
	}
}

// truncate shortens s to width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintEventRow prints a single record with consistent formatting.
func PrintEventRow(w io.Writer, ev event.Event, ownerName string, maxTitleWidth int) {
	marks := ""
	if ev.IsTask() {
		marks += " [task]"
	}
	if ev.IsRecurringInstance || ev.IsTemplate() {
		marks += " ↻"
	}
	if ev.ReminderMinutes > 0 {
		marks += fmt.Sprintf(" ⏰%dm", ev.ReminderMinutes)
	}

	title := truncate(ev.Title, maxTitleWidth)
	if ev.IsDefault {
		title = formatMuted(title)
	}
	fmt.Fprintf(w, "    %s  %s  %-*s  %s%s  %s\n",
		statusSymbol(ev.Completed), timeSpan(ev),
		maxTitleWidth, title,
		formatOwner(ev.Owner, ownerName),
		formatMuted(marks),
		formatMuted(shortID(ev.ID)))
}

// shortID abbreviates plain store ids to their random tail for display.
// Any unique suffix or prefix is accepted where an id is expected.
func shortID(id string) string {
	if len(id) == 36 && !strings.Contains(id, "_") {
		return id[len(id)-12:]
	}
	return id
}

// Bar renders value relative to maxValue as a horizontal bar.
func Bar(value, maxValue float64, width int) string {
	if maxValue <= 0 || value <= 0 {
		return strings.Repeat("░", width)
	}
	filled := int(value / maxValue * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		// Detect and format special line types
		prefix, content, contentWidth, skip := parseInsightLine(trimmed, width)
		if skip {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		// Bullet point
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		// Header - strip # and signal to print as header
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		// Blockquote
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		// Numbered item (1. or 10.)
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuationPrefix := strings.Repeat(" ", len(prefix))
	isFirstLine := true

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			// Print current line and start new one
			printLine(w, prefix, continuationPrefix, line, isFirstLine)
			isFirstLine = false
			line = word
		}
	}

	if line != "" {
		printLine(w, prefix, continuationPrefix, line, isFirstLine)
	}
}

func printLine(w io.Writer, prefix, continuationPrefix, line string, isFirstLine bool) {
	if isFirstLine {
		fmt.Fprintln(w, formatInsight(prefix+line))
	} else {
		fmt.Fprintln(w, formatInsight(continuationPrefix+line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue // Skip the fence line
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
