package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// IsInteractive reports whether both stdin and stdout are terminals.
// The TUI and the spinner are skipped when either is redirected.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// noticeBox frames a notice in a rounded border tinted with color.
// A width of zero lets the box size itself to the text.
func noticeBox(heading, body string, color lipgloss.Color, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
	if width > 0 {
		box = box.Width(width)
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(color).Render(heading)}
	if body != "" {
		lines = append(lines, body)
	}
	return box.Render(strings.Join(lines, "\n"))
}

// WrapText breaks text on spaces so no line is wider than width cells.
// Existing line breaks are kept and a single word longer than width stays whole.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	paragraphs := strings.Split(text, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapLine(p, width)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapLine(line string, width int) string {
	if lipgloss.Width(line) <= width {
		return line
	}
	var out []string
	var cur string
	for _, word := range strings.Fields(line) {
		switch {
		case cur == "":
			cur = word
		case lipgloss.Width(cur)+1+lipgloss.Width(word) <= width:
			cur += " " + word
		default:
			out = append(out, cur)
			cur = word
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}
