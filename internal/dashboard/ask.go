package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/conversation"
	"github.com/abhisek/studybuddy/internal/correlate"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/normalize"
)

// NoAnswerText replaces an empty answer so a resolved turn always shows
// something.
const NoAnswerText = "The service returned an empty answer."

// AskResult is the outcome of ExecuteAsk, applied by CompleteAsk.
type AskResult struct {
	Token   correlate.Token
	Raw     []byte
	Err     error
	Latency time.Duration
}

// BeginAsk validates query and appends a pending turn for it.
func (c *Controller) BeginAsk(query string) (correlate.Token, error) {
	if strings.TrimSpace(query) == "" {
		err := invalid("query", "Type a question first.")
		c.fail(err)
		return 0, err
	}
	tok, err := c.turns.AppendPending(query)
	if err != nil {
		return 0, err
	}
	c.enter(ActionAsk)
	c.opts.Logger.Debug().Stringer("token", tok).Msg("ask started")
	return tok, nil
}

// ExecuteAsk performs the network call for tok. It changes no state and
// may run on any goroutine.
func (c *Controller) ExecuteAsk(ctx context.Context, tok correlate.Token) AskResult {
	turn, ok := c.turns.Get(tok)
	if !ok {
		return AskResult{Token: tok, Err: invalid("query", "Unknown question.")}
	}
	start := time.Now()
	raw, err := c.backend.Ask(ctx, backend.AskRequest{Query: turn.Query, TopK: c.opts.TopK})
	return AskResult{Token: tok, Raw: raw, Err: err, Latency: time.Since(start)}
}

// CompleteAsk applies res to its turn and returns the settled turn.
func (c *Controller) CompleteAsk(ctx context.Context, res AskResult) conversation.Turn {
	defer c.leave(ActionAsk)

	ev := journal.RequestEventData{
		Action:    string(ActionAsk),
		Token:     res.Token.String(),
		Success:   res.Err == nil,
		LatencyMs: res.Latency.Milliseconds(),
	}

	var outcome conversation.Outcome
	if res.Err != nil {
		msg := c.fail(res.Err)
		outcome = conversation.FailedWith(msg)
		ev.ErrorMessage = msg
		c.opts.Logger.Warn().Err(res.Err).Stringer("token", res.Token).Msg("ask failed")
	} else {
		ans := normalize.NormalizeAnswer(res.Raw)
		if strings.TrimSpace(ans.Text) == "" {
			ans.Text = NoAnswerText
		}
		outcome = conversation.ResolvedWith(ans)
		ev.Summary = truncate(ans.Text, 120)
	}

	ev.Applied = c.turns.Settle(res.Token, outcome)
	c.record(ctx, ev)

	turn, _ := c.turns.Get(res.Token)
	return turn
}

// Ask runs a whole turn synchronously. The returned error is the action
// error, if any; the turn is settled either way.
func (c *Controller) Ask(ctx context.Context, query string) (conversation.Turn, error) {
	tok, err := c.BeginAsk(query)
	if err != nil {
		return conversation.Turn{}, err
	}
	res := c.ExecuteAsk(ctx, tok)
	return c.CompleteAsk(ctx, res), res.Err
}
