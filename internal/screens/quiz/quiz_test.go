package quiz

import (
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/direct"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/router"
)

const twoQuestions = `{"questions":[
 {"question_text":"Which layer routes packets?","options":{"A":"Physical","B":"Network","C":"Session","D":"Application"},
  "correct_answer":"B","explanation":"Routing is a network layer concern.","difficulty":"Easy"},
 {"question_text":"TCP is ...","options":{"A":"Connectionless","B":"Unreliable","C":"Connection-oriented","D":"A link protocol"},
  "correct_answer":"C","explanation":"TCP sets up a connection first.","difficulty":"Medium"}]}`

const oneQuestion = `{"questions":[
 {"question_text":"What does DNS resolve?","options":{"A":"Names","B":"Ports","C":"Frames","D":"Routes"},
  "correct_answer":"A","explanation":"DNS maps names to addresses.","difficulty":"Easy"}]}`

func newTestQuiz(responses ...string) (*QuizScreen, *dashboard.Controller) {
	mock := llm.NewMockProvider()
	for _, r := range responses {
		mock.AddResponse(llm.MockResponse{Content: json.RawMessage(r)})
	}
	ctrl := dashboard.New(direct.New(mock, direct.DefaultConfig()), dashboard.Options{Logger: zerolog.Nop()})
	return NewForm(ctrl), ctrl
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func submit(t *testing.T, s *QuizScreen) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command for the quiz request")
	}
	return cmd
}

// deliver settles a finished quiz command the way the root model does.
func deliver(s *QuizScreen, ctrl *dashboard.Controller, msg tea.Msg) {
	s.Update(actions.Settle(ctrl, msg))
}

func TestGenerateShowsQuestions(t *testing.T) {
	s, ctrl := newTestQuiz(twoQuestions)
	s.topic.SetValue("Networking")

	cmd := submit(t, s)
	if !ctrl.Busy(dashboard.ActionQuiz) {
		t.Error("expected quiz to be busy while in flight")
	}
	deliver(s, ctrl, cmd())

	if s.mode != modeResults {
		t.Fatal("expected results mode")
	}
	if len(s.cards) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(s.cards))
	}
	if got := s.cards[0].Question.Options[1].Label; got != "B" {
		t.Errorf("option label = %q, want B", got)
	}
	if !strings.Contains(s.View(100, 30), "Question 1 of 2") {
		t.Error("expected question counter in view")
	}
	if s.CapturesInput() {
		t.Error("results mode should not capture input")
	}
}

func TestStaleQuizIsIgnored(t *testing.T) {
	// Responses are handed out in call order.
	s, ctrl := newTestQuiz(oneQuestion, twoQuestions)
	s.topic.SetValue("DNS")

	older := submit(t, s)
	newer := submit(t, s)

	newerMsg := newer().(actions.QuizDoneMsg) // receives oneQuestion
	olderMsg := older().(actions.QuizDoneMsg) // receives twoQuestions

	deliver(s, ctrl, olderMsg)
	if s.mode != modeForm {
		t.Fatal("stale result must not be shown")
	}
	if ctrl.Quiz().Ready {
		t.Fatal("stale result must not be stored")
	}

	deliver(s, ctrl, newerMsg)
	if len(s.cards) != 1 {
		t.Fatalf("expected newest quiz with 1 question, got %d", len(s.cards))
	}
	if ctrl.Busy(dashboard.ActionQuiz) {
		t.Error("expected quiz to be idle")
	}
}

func TestEmptyQuizShowsNeutralState(t *testing.T) {
	s, ctrl := newTestQuiz(`{"questions":[]}`)
	s.topic.SetValue("Nothing")

	deliver(s, ctrl, submit(t, s)())

	if s.mode != modeResults || len(s.cards) != 0 {
		t.Fatalf("expected empty results, got mode %d with %d cards", s.mode, len(s.cards))
	}
	if !strings.Contains(s.View(100, 30), "No questions were returned") {
		t.Error("expected neutral empty message")
	}
	if ctrl.Banner() != "" {
		t.Errorf("empty quiz should not set the banner, got %q", ctrl.Banner())
	}
}

func TestBlankTopicIsRejected(t *testing.T) {
	s, ctrl := newTestQuiz()

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for a blank topic")
	}
	if ctrl.Banner() == "" {
		t.Error("expected banner to be set")
	}
}

func TestRequestFromForm(t *testing.T) {
	s, _ := newTestQuiz()
	s.topic.SetValue("  Cells ")
	s.count.SetValue("3")

	s.setFocus(fieldDifficulty)
	s.Update(specialKey(tea.KeyRight)) // Medium -> Hard
	s.setFocus(fieldVariant)
	s.Update(specialKey(' '))

	req := s.request()
	want := backend.QuizRequest{Topic: "Cells", NumQuestions: 3, Difficulty: "Hard", Variant: backend.VariantMock}
	if req != want {
		t.Errorf("request = %+v, want %+v", req, want)
	}
}

func TestAnsweringScoresQuestion(t *testing.T) {
	s, ctrl := newTestQuiz(twoQuestions)
	s.topic.SetValue("Networking")
	deliver(s, ctrl, submit(t, s)())

	s.Update(keyPress('b'))
	if !s.cards[0].Submitted || !s.cards[0].IsCorrect() {
		t.Fatal("expected first question answered correctly")
	}

	s.Update(specialKey(tea.KeyRight))
	s.Update(keyPress('a'))
	if s.cards[1].IsCorrect() {
		t.Error("expected second question answered incorrectly")
	}

	answered, correct, gradable := s.score()
	if answered != 2 || correct != 1 || gradable != 2 {
		t.Errorf("score = %d/%d/%d, want 2/1/2", answered, correct, gradable)
	}
}

func TestNewQuizReplacesScreen(t *testing.T) {
	s, ctrl := newTestQuiz(twoQuestions)
	s.topic.SetValue("Networking")
	deliver(s, ctrl, submit(t, s)())

	_, cmd := s.Update(keyPress('n'))
	if cmd == nil {
		t.Fatal("expected a replace command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	next := msg.Screen.(*QuizScreen)
	if next.mode != modeForm || next.topic.Value() != "Networking" {
		t.Errorf("expected a prefilled form, got mode %d topic %q", next.mode, next.topic.Value())
	}
}

func TestNewOpensCurrentQuiz(t *testing.T) {
	s, ctrl := newTestQuiz(oneQuestion)
	s.topic.SetValue("DNS")
	deliver(s, ctrl, submit(t, s)())

	reopened := New(ctrl)
	if reopened.mode != modeResults || len(reopened.cards) != 1 {
		t.Errorf("expected reopened screen to show the current quiz")
	}
}
