// Package actions adapts dashboard operations to Bubble Tea commands.
// Network work runs inside the returned command; the root model passes the
// resulting message through Settle on the UI goroutine before any screen
// sees it.
package actions

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/conversation"
	"github.com/abhisek/studybuddy/internal/dashboard"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/normalize"
	"github.com/abhisek/studybuddy/internal/status"
)

// StatusMsg reports a finished status refresh.
type StatusMsg struct {
	Snapshot status.Snapshot
}

// AskDoneMsg carries the network result of one question.
type AskDoneMsg struct {
	Result dashboard.AskResult
}

// QuizDoneMsg carries the network result of a quiz request.
type QuizDoneMsg struct {
	Result dashboard.QuizResult
}

// AskSettledMsg replaces an AskDoneMsg once its turn has been finalized.
type AskSettledMsg struct {
	Turn conversation.Turn
}

// QuizSettledMsg replaces a QuizDoneMsg once the controller has applied or
// dropped the result.
type QuizSettledMsg struct {
	Applied bool
	Err     error
}

// Settle completes finished ask and quiz results on c, whichever screen is
// showing, and returns the message screens should receive. Other messages
// are returned unchanged.
func Settle(c *dashboard.Controller, msg tea.Msg) tea.Msg {
	switch msg := msg.(type) {
	case AskDoneMsg:
		return AskSettledMsg{Turn: c.CompleteAsk(context.Background(), msg.Result)}
	case QuizDoneMsg:
		return QuizSettledMsg{
			Applied: c.CompleteQuiz(context.Background(), msg.Result),
			Err:     msg.Result.Err,
		}
	}
	return msg
}

// UploadDoneMsg reports a finished upload.
type UploadDoneMsg struct {
	Result normalize.UploadResult
	Err    error
}

// ClearDoneMsg reports a finished temp-store clear.
type ClearDoneMsg struct {
	Message string
	Err     error
}

// HistoryMsg carries the session's journaled actions.
type HistoryMsg struct {
	Events []journal.RequestEventRecord
	Err    error
}

// RefreshStatus probes the service.
func RefreshStatus(c *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Snapshot: c.RefreshStatus(context.Background())}
	}
}

// Ask starts a conversation turn. The pending turn is recorded before the
// command is returned, so it is visible on the next render.
func Ask(c *dashboard.Controller, query string) (tea.Cmd, error) {
	tok, err := c.BeginAsk(query)
	if err != nil {
		return nil, err
	}
	return func() tea.Msg {
		return AskDoneMsg{Result: c.ExecuteAsk(context.Background(), tok)}
	}, nil
}

// GenerateQuiz starts a quiz request, superseding any quiz request still in
// flight.
func GenerateQuiz(c *dashboard.Controller, req backend.QuizRequest) (tea.Cmd, error) {
	tok, req, err := c.BeginQuiz(req)
	if err != nil {
		return nil, err
	}
	return func() tea.Msg {
		return QuizDoneMsg{Result: c.ExecuteQuiz(context.Background(), tok, req)}
	}, nil
}

// Upload reads the file at path and indexes it. Status is refreshed by the
// controller on success.
func Upload(c *dashboard.Controller, path string, permanent bool) tea.Cmd {
	return func() tea.Msg {
		res, err := c.UploadFile(context.Background(), path, permanent)
		return UploadDoneMsg{Result: res, Err: err}
	}
}

// ClearTemp empties the temporary store.
func ClearTemp(c *dashboard.Controller) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.ClearTemp(context.Background())
		return ClearDoneMsg{Message: msg, Err: err}
	}
}

// LoadHistory reads the session's journal.
func LoadHistory(c *dashboard.Controller, limit int) tea.Cmd {
	return func() tea.Msg {
		events, err := c.History(context.Background(), limit)
		return HistoryMsg{Events: events, Err: err}
	}
}
