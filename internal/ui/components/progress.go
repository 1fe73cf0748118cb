package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillora/internal/ui/theme"
)

// ActivityBar is a horizontal bar scaled against a maximum, with the raw
// count printed after it.
type ActivityBar struct {
	Label string
	Value int
	Max   int
	Width int
}

// NewActivityBar creates a new activity bar.
func NewActivityBar(label string, value, maxValue, width int) ActivityBar {
	return ActivityBar{
		Label: label,
		Value: value,
		Max:   maxValue,
		Width: width,
	}
}

// Filled returns how many of barWidth cells the value occupies.
func (a ActivityBar) Filled(barWidth int) int {
	if a.Max <= 0 || a.Value <= 0 {
		return 0
	}
	filled := int(float64(barWidth) * float64(a.Value) / float64(a.Max))
	if filled > barWidth {
		filled = barWidth
	}
	// Any activity at all gets at least one cell.
	if filled == 0 {
		filled = 1
	}
	return filled
}

// View renders the bar.
func (a ActivityBar) View() string {
	var result string

	if a.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(a.Label) + "  "
	}

	count := fmt.Sprintf("  %d", a.Value)
	barWidth := a.Width - lipgloss.Width(result) - len(count)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := a.Filled(barWidth)
	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)

	return result
}
