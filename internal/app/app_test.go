package app

import (
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/conversation"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/direct"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/router"
	"github.com/abhisek/studybuddy/internal/screen"
	"github.com/abhisek/studybuddy/internal/screens/chat"
	"github.com/abhisek/studybuddy/internal/screens/quiz"
)

func newTestApp(responses ...llm.MockResponse) (AppModel, *dashboard.Controller) {
	mock := llm.NewMockProvider(responses...)
	ctrl := dashboard.New(direct.New(mock, direct.DefaultConfig()), dashboard.Options{Logger: zerolog.Nop()})
	return newAppModel(ctrl), ctrl
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestViewShowsHeaderAndBanner(t *testing.T) {
	m, ctrl := newTestApp()
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.render()
	if !strings.Contains(view, "StudyBuddy") {
		t.Error("expected app name in header")
	}

	// A blank question is rejected and reported in the banner.
	if _, err := ctrl.Ask(t.Context(), " "); err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(m.render(), ctrl.Banner()) {
		t.Error("expected banner in view")
	}
}

func TestEscDismissesBannerBeforePopping(t *testing.T) {
	m, ctrl := newTestApp()
	m, _ = update(m, router.PushScreenMsg{Screen: m.router.Active()})
	if m.router.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", m.router.Depth())
	}

	ctrl.Ask(t.Context(), "")
	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if ctrl.Banner() != "" {
		t.Error("expected banner dismissed")
	}
	if cmd != nil {
		t.Error("expected no pop while dismissing the banner")
	}

	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestStaleTickIgnored(t *testing.T) {
	m, _ := newTestApp()
	m.tickID = 3

	_, cmd := update(m, tickMsg{id: 2})
	if cmd != nil {
		t.Error("expected stale tick to be dropped")
	}

	m, _ = update(m, tickMsg{id: 3})
	if m.ticking {
		t.Error("expected ticking to stop when nothing is busy")
	}
}

// typeText sends each rune of text to sc as a key press.
func typeText(sc screen.Screen, text string) {
	for _, r := range text {
		sc.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestAskCompletesAfterLeavingChat(t *testing.T) {
	m, ctrl := newTestApp(llm.MockResponse{Content: json.RawMessage(`{"answer":"Hello there."}`)})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	cs := chat.New(ctrl)
	m, _ = update(m, router.PushScreenMsg{Screen: cs})
	typeText(cs, "hi")
	_, cmd := cs.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command for the network call")
	}
	if !ctrl.Busy(dashboard.ActionAsk) {
		t.Fatal("expected ask to be busy while in flight")
	}

	m, _ = update(m, router.PopScreenMsg{})
	if m.router.Depth() != 1 {
		t.Fatalf("expected to be back on home, depth %d", m.router.Depth())
	}

	done, ok := cmd().(actions.AskDoneMsg)
	if !ok {
		t.Fatal("expected AskDoneMsg")
	}
	m, _ = update(m, done)

	turns := ctrl.Conversation()
	if len(turns) != 1 || turns[0].State == conversation.Pending {
		t.Fatalf("expected the turn to be settled, got %+v", turns)
	}
	if ctrl.Busy(dashboard.ActionAsk) || ctrl.AnyBusy() {
		t.Error("expected nothing to be busy")
	}

	m, _ = update(m, tickMsg{id: m.tickID})
	if m.ticking {
		t.Error("expected the spinner to stop once the ask settled")
	}
}

func TestQuizCompletesAfterLeavingForm(t *testing.T) {
	m, ctrl := newTestApp(llm.MockResponse{Content: json.RawMessage(`{"questions":[
 {"question_text":"What does DNS resolve?","options":{"A":"Names","B":"Ports"},"correct_answer":"A"}]}`)})

	qs := quiz.NewForm(ctrl)
	m, _ = update(m, router.PushScreenMsg{Screen: qs})
	typeText(qs, "DNS")
	_, cmd := qs.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command for the quiz request")
	}

	m, _ = update(m, router.PopScreenMsg{})
	done, ok := cmd().(actions.QuizDoneMsg)
	if !ok {
		t.Fatal("expected QuizDoneMsg")
	}
	update(m, done)

	if ctrl.AnyBusy() {
		t.Error("expected quiz to be idle")
	}
	if q := ctrl.Quiz(); !q.Ready || len(q.Quiz.Questions) != 1 {
		t.Errorf("expected the quiz to be stored, got %+v", q)
	}
}
