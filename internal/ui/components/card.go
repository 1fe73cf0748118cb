package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillora/internal/ui/theme"
)

// StatCard is a bordered tile with a big value over a small label.
type StatCard struct {
	Icon  string
	Value string
	Label string
	Color color.Color
}

// View renders the card at the given outer width.
func (c StatCard) View(width int) string {
	fg := c.Color
	if fg == nil {
		fg = theme.Text
	}

	value := lipgloss.NewStyle().Foreground(fg).Bold(true).Render(c.Value)
	if c.Icon != "" {
		value = c.Icon + " " + value
	}
	label := theme.Subtitle.Render(c.Label)

	return theme.Card.
		BorderForeground(fg).
		Width(width).
		Align(lipgloss.Center).
		Render(value + "\n" + label)
}

// CardRow lays cards out side by side, wrapping so no row is wider than
// width. Each card gets cardWidth columns.
func CardRow(cards []StatCard, cardWidth, width int) string {
	perRow := width / cardWidth
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		views := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			views = append(views, c.View(cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, views...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
