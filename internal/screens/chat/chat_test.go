package chat

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
)

func newTestChat(responses ...llm.MockResponse) (*ChatScreen, *dashboard.Controller) {
	mock := llm.NewMockProvider(responses...)
	ctrl := dashboard.New(direct.New(mock, direct.DefaultConfig()), dashboard.Options{Logger: zerolog.Nop()})
	return New(ctrl), ctrl
}

func enter() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyEnter}
}

func TestEnterStartsPendingTurn(t *testing.T) {
	s, ctrl := newTestChat(llm.MockResponse{Content: json.RawMessage(`{"answer":"ATP stores energy."}`)})

	s.input.SetValue("What is ATP?")
	_, cmd := s.Update(enter())
	if cmd == nil {
		t.Fatal("expected a command for the network call")
	}
	if s.input.Value() != "" {
		t.Errorf("expected input to be cleared, got %q", s.input.Value())
	}

	turns := ctrl.Conversation()
	if len(turns) != 1 || turns[0].State != conversation.Pending {
		t.Fatalf("expected one pending turn, got %+v", turns)
	}
	if !strings.Contains(s.View(80, 20), "Thinking") {
		t.Error("expected pending indicator in view")
	}

	done, ok := cmd().(actions.AskDoneMsg)
	if !ok {
		t.Fatal("expected AskDoneMsg")
	}
	s.Update(actions.Settle(ctrl, done))

	turns = ctrl.Conversation()
	if turns[0].State != conversation.Resolved {
		t.Fatalf("expected resolved turn, got %s", turns[0].State)
	}
	if got := *turns[0].Answer; got != "ATP stores energy." {
		t.Errorf("answer = %q", got)
	}
	if ctrl.Busy(dashboard.ActionAsk) {
		t.Error("expected ask to be idle")
	}
}

func TestBlankQuestionSetsBanner(t *testing.T) {
	s, ctrl := newTestChat()

	_, cmd := s.Update(enter())
	if cmd != nil {
		t.Error("expected no command for a blank question")
	}
	if ctrl.Banner() == "" {
		t.Error("expected banner to be set")
	}
	if len(ctrl.Conversation()) != 0 {
		t.Error("expected no turn to be recorded")
	}
}

func TestFailedTurnShowsReason(t *testing.T) {
	// No canned responses: the mock provider reports itself unavailable.
	s, ctrl := newTestChat()

	s.input.SetValue("Anything?")
	_, cmd := s.Update(enter())
	s.Update(cmd())

	turns := ctrl.Conversation()
	if turns[0].State != conversation.Failed {
		t.Fatalf("expected failed turn, got %s", turns[0].State)
	}
	if !strings.Contains(s.View(80, 20), turns[0].FailureReason) {
		t.Error("expected failure reason in view")
	}
}

func TestWindow(t *testing.T) {
	lines := []string{"1", "2", "3", "4", "5"}

	scroll := 0
	if got := strings.Join(window(lines, 2, &scroll), ","); got != "4,5" {
		t.Errorf("bottom window = %s", got)
	}

	scroll = 2
	if got := strings.Join(window(lines, 2, &scroll), ","); got != "2,3" {
		t.Errorf("scrolled window = %s", got)
	}

	scroll = 99
	if got := strings.Join(window(lines, 2, &scroll), ","); got != "1,2" || scroll != 3 {
		t.Errorf("clamped window = %s, scroll = %d", got, scroll)
	}

	scroll = 0
	if got := window(lines, 10, &scroll); len(got) != 5 {
		t.Errorf("expected all lines, got %d", len(got))
	}
}
