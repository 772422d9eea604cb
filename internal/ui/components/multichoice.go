package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/ui/theme"
)

// MultiChoice renders one quiz question and lets the user pick an option.
// Options keep the labels the payload gave them. A question without
// options is answered by revealing the stored answer.
type MultiChoice struct {
	Question  normalize.QuizQuestion
	Selected  int
	Submitted bool
	Chosen    int
}

// NewMultiChoice creates a selector for q.
func NewMultiChoice(q normalize.QuizQuestion) MultiChoice {
	return MultiChoice{Question: q, Chosen: -1}
}

// Update handles keyboard navigation and selection. Option labels are
// also accepted as shortcuts.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Question.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.submit(m.Selected)
	default:
		for i, o := range m.Question.Options {
			if strings.EqualFold(o.Label, key) {
				m.Selected = i
				m.submit(i)
				break
			}
		}
	}
	return m, nil
}

func (m *MultiChoice) submit(i int) {
	m.Submitted = true
	if len(m.Question.Options) > 0 {
		m.Chosen = i
	}
}

// correctIndex returns the position of the correct option, or -1.
func (m MultiChoice) correctIndex() int {
	want, ok := m.Question.CorrectOption()
	if !ok {
		return -1
	}
	for i, o := range m.Question.Options {
		if o == want {
			return i
		}
	}
	return -1
}

// IsCorrect reports whether the chosen option is the correct one. It is
// false when the question names no matching correct option.
func (m MultiChoice) IsCorrect() bool {
	ci := m.correctIndex()
	return m.Submitted && ci >= 0 && m.Chosen == ci
}

// Gradable reports whether the question has a recognizable correct option.
func (m MultiChoice) Gradable() bool {
	return m.correctIndex() >= 0
}

// View renders the question, its options and, once submitted, the answer
// and explanation.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	q := m.Question

	head := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width)
	b.WriteString(head.Render(q.Text))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(string(q.Difficulty)))
	b.WriteString("\n\n")

	ci := m.correctIndex()
	for i, opt := range q.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, opt.Label, opt.Text)

		style := theme.Unselected
		switch {
		case m.Submitted && i == ci:
			style = theme.Correct
		case m.Submitted && i == m.Chosen:
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if !m.Submitted {
		return b.String()
	}

	b.WriteString("\n")
	if q.CorrectAnswer != nil && ci < 0 {
		b.WriteString(theme.Label.Render("Answer: "))
		b.WriteString(theme.Body.Render(*q.CorrectAnswer))
		b.WriteString("\n")
	} else if q.CorrectAnswer == nil {
		b.WriteString(theme.Hint.Render("No answer was provided for this question."))
		b.WriteString("\n")
	}
	if q.Explanation != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).Render(*q.Explanation))
		b.WriteString("\n")
	}
	return b.String()
}
