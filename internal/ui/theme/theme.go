package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette. Signal colors match the dashboard cards.
var (
	Primary       = lipgloss.Color("#3B82F6") // Blue
	Breakthrough  = lipgloss.Color("#22C55E") // Green
	Misconception = lipgloss.Color("#8B5CF6") // Purple
	Frustration   = lipgloss.Color("#EAB308") // Yellow
	Accuracy      = lipgloss.Color("#14B8A6") // Teal
	Error         = lipgloss.Color("#F43F5E") // Rose
	Text          = lipgloss.Color("#F8FAFC") // White
	TextDim       = lipgloss.Color("#94A3B8") // Slate
	BgCard        = lipgloss.Color("#1E293B") // Dark Slate
	Border        = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)
