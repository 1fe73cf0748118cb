// Package dashboard renders the reporting view for the terminal.
package dashboard

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/abhisek/skillora/internal/report"
	"github.com/abhisek/skillora/internal/tutor"
	"github.com/abhisek/skillora/internal/ui/components"
	"github.com/abhisek/skillora/internal/ui/layout"
	"github.com/abhisek/skillora/internal/ui/theme"
)

const cardWidth = 20

// RecentLimit is how many records each recent-signal list shows.
const RecentLimit = 5

// Render draws the full dashboard: summary cards, grade activity and the
// latest signals of each kind.
func Render(ds *report.Dataset, width int) string {
	width = layout.ContentWidth(width)
	s := report.Summarize(ds)

	parts := []string{RenderSummary(s, width)}
	if s.TotalSessions == 0 {
		return strings.Join(parts, "\n\n")
	}
	parts = append(parts, RenderGradeActivity(s, width))

	if recent := renderRecent(ds, width); recent != "" {
		parts = append(parts, recent)
	}
	return strings.Join(parts, "\n\n")
}

// RenderSummary draws the header and the headline stat cards.
func RenderSummary(s report.Summary, width int) string {
	width = layout.ContentWidth(width)
	note := fmt.Sprintf("%d sessions", s.TotalSessions)
	header := layout.RenderHeader("Learning Signals", note, width)

	if s.TotalSessions == 0 && s.Breakthroughs == 0 && s.Misconceptions == 0 && s.Frustrations == 0 {
		empty := theme.Hint.Render("No sessions yet. Start one with `skillora chat`.")
		return header + "\n" + empty + rejectedNote(s)
	}

	cards := []components.StatCard{
		{Icon: "📚", Value: fmt.Sprint(s.TotalSessions), Label: "Sessions", Color: theme.Primary},
		{Icon: "💬", Value: fmt.Sprint(s.TotalExchanges), Label: "Exchanges", Color: theme.Text},
		{Icon: "🎯", Value: fmt.Sprintf("%d%%", s.AvgAccuracy), Label: "Avg Accuracy", Color: theme.Accuracy},
		{Icon: "⏱", Value: fmt.Sprintf("%dm", s.AvgSessionMinutes), Label: "Avg Session", Color: theme.Text},
		{Icon: "💡", Value: fmt.Sprint(s.Breakthroughs), Label: "Breakthroughs", Color: theme.Breakthrough},
		{Icon: "🧠", Value: fmt.Sprint(s.Misconceptions), Label: "Misconceptions", Color: theme.Misconception},
		{Icon: "😤", Value: fmt.Sprint(s.Frustrations), Label: "Frustrations", Color: theme.Frustration},
	}

	return header + "\n" + components.CardRow(cards, cardWidth, width) + rejectedNote(s)
}

// RenderGradeActivity draws one bar per grade, scaled to the busiest grade.
func RenderGradeActivity(s report.Summary, width int) string {
	width = layout.ContentWidth(width)
	grades := s.Grades()
	if len(grades) == 0 {
		return layout.RenderSection("Activity by Grade", theme.Hint.Render("No graded sessions."))
	}

	lines := make([]string, 0, len(grades))
	for _, g := range grades {
		label := fmt.Sprintf("%s Grade %-2d", tutor.GradeIcon(g), g)
		lines = append(lines, components.NewActivityBar(label, s.GradeActivity[g], s.MaxActivity, width).View())
	}
	return layout.RenderSection("Activity by Grade", strings.Join(lines, "\n"))
}

func renderRecent(ds *report.Dataset, width int) string {
	var sections []string

	if len(ds.Breakthroughs) > 0 {
		lines := make([]string, 0, RecentLimit)
		for _, b := range ds.Breakthroughs[:min(RecentLimit, len(ds.Breakthroughs))] {
			line := fmt.Sprintf("%s  %s  after %d wrong", stamp(b.Timestamp.Format("Jan 2 15:04")), b.Topic, b.WrongAttempts)
			if b.QuestionText != "" {
				line += "  " + theme.Hint.Render(clip(b.QuestionText, width/2))
			}
			lines = append(lines, line)
		}
		sections = append(sections, coloredSection("Recent Breakthroughs", theme.Breakthrough, lines))
	}

	if len(ds.Misconceptions) > 0 {
		lines := make([]string, 0, RecentLimit)
		for _, m := range ds.Misconceptions[:min(RecentLimit, len(ds.Misconceptions))] {
			line := fmt.Sprintf("%s  %s  %q", stamp(m.Timestamp.Format("Jan 2 15:04")), m.Topic, clip(m.StudentThinking, width/2))
			lines = append(lines, line)
		}
		sections = append(sections, coloredSection("Recent Misconceptions", theme.Misconception, lines))
	}

	if len(ds.Frustrations) > 0 {
		lines := make([]string, 0, RecentLimit)
		for _, f := range ds.Frustrations[:min(RecentLimit, len(ds.Frustrations))] {
			line := fmt.Sprintf("%s  %-20s  %q", stamp(f.Timestamp.Format("Jan 2 15:04")), f.Type, clip(f.StudentMessage, width/3))
			lines = append(lines, line)
		}
		sections = append(sections, coloredSection("Recent Frustration Signals", theme.Frustration, lines))
	}

	return strings.Join(sections, "\n\n")
}

func coloredSection(title string, c color.Color, lines []string) string {
	return theme.Title.Foreground(c).Render(title) + "\n" + strings.Join(lines, "\n")
}

func stamp(s string) string {
	return theme.Subtitle.Render(s)
}

func rejectedNote(s report.Summary) string {
	if s.Rejected == 0 {
		return ""
	}
	return "\n" + theme.Warning.Render(fmt.Sprintf("%d stored records could not be read", s.Rejected))
}

// clip shortens s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
