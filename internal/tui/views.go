// internal/tui/views.go
//
// Pure rendering helpers for the dashboard panels. Everything here takes
// state in and returns a styled string; no mutation, no I/O.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lbehrendt/studytrack/internal/aggregate"
	"github.com/lbehrendt/studytrack/internal/curriculum"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)

// progressBar renders the classic credit bar: [#####-----] 47% (85/180 ECTS).
func progressBar(s aggregate.Summary, width int) string {
	if s.ECTSTotal == 0 {
		return "[no modules in curriculum]"
	}
	if width < 10 {
		width = 10
	}
	filled := int(s.Progress * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %.0f%% (%s/%s ECTS)",
		strings.Repeat("#", filled),
		strings.Repeat("-", width-filled),
		s.Progress*100,
		formatECTS(s.ECTSEarned),
		formatECTS(s.ECTSTotal),
	)
}

func formatECTS(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func formatGrade(g *float64) string {
	if g == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *g)
}

func gradeSummary(s aggregate.Summary) string {
	if s.GPA == nil {
		return "GPA: no grades yet"
	}
	return fmt.Sprintf("GPA: %.2f (credit-weighted)", *s.GPA)
}

// summaryPanel renders the right-hand aggregates column.
func summaryPanel(name string, s aggregate.Summary, report aggregate.Report, goal curriculum.StudyGoal, width int) string {
	lines := []string{
		panelTitleStyle.Render(name),
		progressBar(s, 24),
		gradeSummary(s),
		"",
	}
	for _, status := range curriculum.AllStatuses {
		lines = append(lines, fmt.Sprintf("%-11s %d", status.Label(), s.Counts[status]))
	}
	lines = append(lines, "",
		fmt.Sprintf("Semesters completed: %d/%d", s.CompletedSemesters, s.TotalSemesters))
	lines = append(lines, "", panelTitleStyle.Render("Goals"))
	lines = append(lines, goalLines(report, goal)...)
	return lipgloss.NewStyle().Width(maxInt(20, width)).Render(strings.Join(lines, "\n"))
}

func goalLines(report aggregate.Report, goal curriculum.StudyGoal) []string {
	if !goal.IsSet() {
		return []string{mutedStyle.Render("No goal set.")}
	}
	var lines []string
	if goal.TargetGPA != nil {
		lines = append(lines, fmt.Sprintf("GPA target %.1f: %s", *goal.TargetGPA, report.GPA))
	}
	if t := goal.ECTSTarget; t != nil {
		lines = append(lines, fmt.Sprintf("%s ECTS by %s: %s",
			formatECTS(t.ECTS), t.Deadline.Format("2006-01-02"), report.ECTS))
	}
	lines = append(lines, fmt.Sprintf("Overall: %s", report.Overall))
	return lines
}

// moduleTable renders modules with fixed column widths so credits and status
// stay aligned.
func moduleTable(modules []*curriculum.Module) string {
	const (
		idWidth   = 10
		nameWidth = 34
	)
	header := fmt.Sprintf("%-*s %-*s %5s  %-11s %5s", idWidth, "ID", nameWidth, "Name", "ECTS", "Status", "Grade")
	lines := []string{header, strings.Repeat("-", len(header))}
	for _, m := range modules {
		lines = append(lines, fmt.Sprintf("%-*s %-*s %5s  %-11s %5s",
			idWidth, clip(m.ID, idWidth),
			nameWidth, clip(m.Name, nameWidth),
			formatECTS(m.ECTS),
			m.Status.Label(),
			formatGrade(m.Grade),
		))
	}
	return strings.Join(lines, "\n")
}

func clip(text string, width int) string {
	if len(text) <= width {
		return text
	}
	if width <= 3 {
		return text[:width]
	}
	return text[:width-3] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
