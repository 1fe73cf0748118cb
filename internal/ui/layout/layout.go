package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillora/internal/ui/theme"
)

const (
	MinWidth = 40
	MaxWidth = 100

	DefaultWidth = 80
)

// ContentWidth clamps a terminal width to the range reports render in.
// Zero or negative means unknown and yields DefaultWidth.
func ContentWidth(termWidth int) int {
	if termWidth <= 0 {
		return DefaultWidth
	}
	return min(max(termWidth, MinWidth), MaxWidth)
}

// RenderHeader renders the boxed report header: brand on the left, title
// in the middle and a dim note on the right.
func RenderHeader(title, note string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("Skillora")
	center := theme.Body.Render(title)
	right := theme.Subtitle.Render(note)

	// border (2) + padding (4)
	inner := max(width-6, 0)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	leftGap := max((inner-centerLen)/2-leftLen, 1)
	rightGap := max(inner-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return theme.Header.Width(width).Render(content)
}

// RenderSection renders a titled block of lines.
func RenderSection(title string, body string) string {
	return theme.Title.Render(title) + "\n" + body
}
