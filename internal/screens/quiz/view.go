package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	inner := width - 6
	if inner > 90 {
		inner = 90
	}

	var body string
	if s.mode == modeResults {
		body = s.renderResults(inner)
	} else {
		body = s.renderForm(inner)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 3).
		Render(body)
}

func (s *QuizScreen) renderForm(width int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Generate a quiz"))
	b.WriteString("\n\n")

	b.WriteString(s.topic.View())
	b.WriteString("\n")
	if s.variant.Selected == 1 {
		b.WriteString(theme.Hint.Render("  Optional for a mock test."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.count.View())
	b.WriteString("\n\n")
	b.WriteString(s.fieldLabel(fieldDifficulty, "Difficulty") + s.difficulty.View())
	b.WriteString("\n\n")
	b.WriteString(s.fieldLabel(fieldVariant, "Type") + s.variant.View())
	b.WriteString("\n\n")

	if s.ctrl.Busy(dashboard.ActionQuiz) {
		b.WriteString(theme.Pending.Render(s.spinner.View() + " Generating questions..."))
	} else {
		b.WriteString(theme.Hint.Render("Press Enter to generate."))
	}
	return b.String()
}

func (s *QuizScreen) fieldLabel(field int, label string) string {
	if s.focus == field {
		return theme.Label.Render(label + ": ")
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(label + ": ")
}

func (s *QuizScreen) renderResults(width int) string {
	q := s.ctrl.Quiz()

	var b strings.Builder
	title := q.Quiz.Title
	if title == "" {
		title = q.Request.Topic
	}
	if title == "" {
		title = "Quiz"
	}
	b.WriteString(theme.Title.Width(width).Render(title))
	b.WriteString("\n\n")

	if len(s.cards) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render("No questions were returned for this request.\nTry a different topic or press n to start over."))
		return b.String()
	}

	answered, _, _ := s.score()
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.current+1, len(s.cards)),
		answered,
		len(s.cards),
		width,
	)
	b.WriteString(bar.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(s.progressLabel()))
	b.WriteString("\n\n")

	b.WriteString(theme.Card.Width(width).Render(s.cards[s.current].View(width - 6)))

	if s.ctrl.Busy(dashboard.ActionQuiz) {
		b.WriteString("\n")
		b.WriteString(theme.Pending.Render(s.spinner.View() + " Generating a new quiz..."))
	}
	return b.String()
}
