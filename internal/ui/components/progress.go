package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// ProgressBar shows Done out of Total as a filled bar with a count.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

func NewProgressBar(label string, done, total, width int) ProgressBar {
	return ProgressBar{Label: label, Done: done, Total: total, Width: width}
}

func (p ProgressBar) fraction() float64 {
	if p.Total <= 0 || p.Done <= 0 {
		return 0
	}
	if p.Done >= p.Total {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

func (p ProgressBar) View() string {
	var label string
	if p.Label != "" {
		label = theme.Label.Render(p.Label) + "  "
	}
	count := theme.Hint.Render(fmt.Sprintf("  %d/%d", p.Done, p.Total))

	barWidth := p.Width - lipgloss.Width(label) - lipgloss.Width(count)
	if barWidth < 4 {
		barWidth = 4
	}
	filled := int(float64(barWidth)*p.fraction() + 0.5)

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		count
}
