package quiz

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/ui/components"
	"github.com/abhisek/studybuddy/internal/ui/layout"
)

type mode int

const (
	modeForm mode = iota
	modeResults
)

// Form fields, in tab order.
const (
	fieldTopic = iota
	fieldNum
	fieldDifficulty
	fieldVariant
	numFields
)

var difficulties = []string{string(normalize.Easy), string(normalize.Medium), string(normalize.Hard)}

// QuizScreen collects quiz parameters and shows the generated questions.
type QuizScreen struct {
	ctrl *dashboard.Controller
	mode mode

	topic      components.TextInput
	count      components.TextInput
	difficulty components.Toggle
	variant    components.Toggle
	focus      int

	cards   []components.MultiChoice
	current int
	spinner components.Spinner
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.InputCapturer = (*QuizScreen)(nil)

// New creates a quiz screen. It opens on the session's current quiz when
// there is one.
func New(ctrl *dashboard.Controller) *QuizScreen {
	s := NewForm(ctrl)
	if q := ctrl.Quiz(); q.Ready {
		s.fill(q.Request)
		s.showQuiz(q)
	}
	return s
}

// NewForm creates a quiz screen on an empty form.
func NewForm(ctrl *dashboard.Controller) *QuizScreen {
	s := &QuizScreen{
		ctrl:       ctrl,
		topic:      components.NewTextInput("Topic", "e.g. photosynthesis", false, 200),
		count:      components.NewTextInput("Questions", "5", true, 2),
		difficulty: components.NewToggle(difficulties...),
		variant:    components.NewToggle("Topic quiz", "Mock test"),
	}
	s.count.SetValue("5")
	s.difficulty.Selected = 1
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.mode == modeForm {
		return s.setFocus(fieldTopic)
	}
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) CapturesInput() bool {
	return s.mode == modeForm && (s.focus == fieldTopic || s.focus == fieldNum)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.mode == modeResults {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "n", Description: "New quiz"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Space", Description: "Change option"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

// request builds the quiz request from the form. Validation is left to the
// controller so that every entry point rejects the same inputs.
func (s *QuizScreen) request() backend.QuizRequest {
	n, err := s.count.NumericValue()
	if err != nil {
		n = 0
	}
	variant := backend.VariantTopic
	if s.variant.Selected == 1 {
		variant = backend.VariantMock
	}
	return backend.QuizRequest{
		Topic:        s.topic.Value(),
		NumQuestions: n,
		Difficulty:   normalize.Difficulty(s.difficulty.Value()),
		Variant:      variant,
	}
}

func (s *QuizScreen) fill(req backend.QuizRequest) {
	s.topic.SetValue(req.Topic)
	if req.NumQuestions > 0 {
		s.count.SetValue(strconv.Itoa(req.NumQuestions))
	}
	for i, d := range difficulties {
		if d == string(req.Difficulty) {
			s.difficulty.Selected = i
		}
	}
	if req.Variant == backend.VariantMock {
		s.variant.Selected = 1
	}
}

func (s *QuizScreen) showQuiz(q dashboard.QuizState) {
	s.cards = make([]components.MultiChoice, len(q.Quiz.Questions))
	for i, question := range q.Quiz.Questions {
		s.cards[i] = components.NewMultiChoice(question)
	}
	s.current = 0
	s.mode = modeResults
	s.topic.Blur()
	s.count.Blur()
}

func (s *QuizScreen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.topic.Blur()
	s.count.Blur()
	switch field {
	case fieldTopic:
		return s.topic.Focus()
	case fieldNum:
		return s.count.Focus()
	}
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actions.QuizSettledMsg:
		if msg.Applied && msg.Err == nil {
			s.showQuiz(s.ctrl.Quiz())
		}
		return s, nil

	case components.SpinnerTickMsg:
		s.spinner = s.spinner.Advance()
		return s, nil

	case tea.KeyMsg:
		if s.mode == modeResults {
			return s.updateResults(msg)
		}
		return s.updateForm(msg)
	}

	return s.forwardToInput(msg)
}

func (s *QuizScreen) updateForm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		cmd, err := actions.GenerateQuiz(s.ctrl, s.request())
		if err != nil {
			return s, nil
		}
		return s, cmd
	case "space", "left", "right":
		switch s.focus {
		case fieldDifficulty:
			s.difficulty = s.difficulty.Next()
			return s, nil
		case fieldVariant:
			s.variant = s.variant.Next()
			return s, nil
		}
	}
	return s.forwardToInput(msg)
}

func (s *QuizScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.mode != modeForm {
		return s, nil
	}
	var cmd tea.Cmd
	switch s.focus {
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldNum:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *QuizScreen) updateResults(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "n":
		next := NewForm(s.ctrl)
		next.fill(s.ctrl.Quiz().Request)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case "left", "p":
		if s.current > 0 {
			s.current--
		}
		return s, nil
	case "right", "tab":
		if s.current < len(s.cards)-1 {
			s.current++
		}
		return s, nil
	}
	if len(s.cards) == 0 {
		return s, nil
	}
	var cmd tea.Cmd
	s.cards[s.current], cmd = s.cards[s.current].Update(msg)
	return s, cmd
}

// score returns the number answered, answered correctly and gradable.
func (s *QuizScreen) score() (answered, correct, gradable int) {
	for _, c := range s.cards {
		if c.Submitted {
			answered++
		}
		if c.IsCorrect() {
			correct++
		}
		if c.Gradable() {
			gradable++
		}
	}
	return answered, correct, gradable
}

func (s *QuizScreen) progressLabel() string {
	answered, correct, gradable := s.score()
	if gradable == 0 {
		return fmt.Sprintf("%d/%d answered", answered, len(s.cards))
	}
	return fmt.Sprintf("%d/%d answered · %d correct", answered, len(s.cards), correct)
}
