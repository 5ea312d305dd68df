package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(16)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	StatusOK = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)
)

// Metric is one labelled line of a report.
type Metric struct {
	Label string
	Value string
	Warn  bool
}

func Metricf(label, format string, args ...any) Metric {
	return Metric{Label: label, Value: fmt.Sprintf(format, args...)}
}

// Report renders a titled panel with one metric per line.
func Report(title string, metrics []Metric) string {
	var b strings.Builder
	b.WriteString(Title.Render(title))
	for _, m := range metrics {
		value := MetricValue.Render(m.Value)
		if m.Warn {
			value = StatusWarn.Render(m.Value)
		}
		b.WriteString("\n" + MetricLabel.Render(m.Label) + value)
	}
	return Panel.Render(b.String())
}

// Separator draws a horizontal rule with a centre mark.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
