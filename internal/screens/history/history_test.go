package history

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/studybuddy/internal/actions"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/direct"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/llm"
)

func TestHistoryListsSessionActions(t *testing.T) {
	store, err := journal.Open(journal.DefaultDSN)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"answer":"Yes."}`)})
	ctrl := dashboard.New(direct.New(mock, direct.DefaultConfig()), dashboard.Options{
		Journal: store.EventRepo(),
		Logger:  zerolog.Nop(),
	})

	ctx := context.Background()
	if _, err := ctrl.Ask(ctx, "Is water wet?"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	// The mock has no more responses, so this one fails.
	if _, err := ctrl.Ask(ctx, "Is fire hot?"); err == nil {
		t.Fatal("expected second ask to fail")
	}

	s := New(ctrl)
	msg, ok := s.Init()().(actions.HistoryMsg)
	if !ok {
		t.Fatal("expected HistoryMsg")
	}
	s.Update(msg)

	if len(s.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(s.events))
	}
	if s.events[0].Success {
		t.Error("expected newest event to be the failure")
	}

	view := s.View(120, 30)
	if !strings.Contains(view, "Yes.") {
		t.Error("expected answer summary in view")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "token") {
		t.Error("expected details after enter")
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	ctrl := dashboard.New(direct.New(llm.NewMockProvider(), direct.DefaultConfig()), dashboard.Options{Logger: zerolog.Nop()})
	s := New(ctrl)
	s.Update(s.Init()())

	if !strings.Contains(s.View(80, 20), "Nothing yet") {
		t.Error("expected empty state")
	}
}
