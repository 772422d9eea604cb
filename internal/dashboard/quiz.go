package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/backend"
	"github.com/abhisek/studybuddy/internal/correlate"
	"github.com/abhisek/studybuddy/internal/journal"
	"github.com/abhisek/studybuddy/internal/normalize"
)

// QuizState is the quiz currently shown.
type QuizState struct {
	Request backend.QuizRequest
	Quiz    normalize.Quiz
	Shape   normalize.Shape

	// Ready is false until a quiz result has been applied.
	Ready bool
}

// Empty reports whether an applied quiz has no questions.
func (q QuizState) Empty() bool {
	return q.Ready && len(q.Quiz.Questions) == 0
}

// QuizResult is the outcome of ExecuteQuiz, applied by CompleteQuiz.
type QuizResult struct {
	Token   correlate.Token
	Request backend.QuizRequest
	Raw     []byte
	Err     error
	Latency time.Duration
}

// Quiz returns the current quiz.
func (c *Controller) Quiz() QuizState {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.quiz
	q.Quiz.Questions = append([]normalize.QuizQuestion(nil), c.quiz.Quiz.Questions...)
	return q
}

// PrepareQuiz fills defaults and validates req.
func PrepareQuiz(req backend.QuizRequest) (backend.QuizRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Variant == "" {
		req.Variant = backend.VariantTopic
	}
	if _, ok := backend.ParseVariant(string(req.Variant)); !ok {
		return req, invalid("variant", "Unknown quiz type.")
	}
	if req.Variant == backend.VariantTopic && req.Topic == "" {
		return req, invalid("topic", "Enter a topic for the quiz.")
	}
	if req.NumQuestions <= 0 {
		return req, invalid("num_questions", "Ask for at least one question.")
	}
	if !req.Difficulty.Valid() {
		req.Difficulty = normalize.Medium
	}
	return req, nil
}

// BeginQuiz validates req and takes the quiz slot. Any quiz request still
// in flight stops being current.
func (c *Controller) BeginQuiz(req backend.QuizRequest) (correlate.Token, backend.QuizRequest, error) {
	req, err := PrepareQuiz(req)
	if err != nil {
		c.fail(err)
		return 0, req, err
	}
	tok := c.corr.Begin(QuizSlot)
	c.enter(ActionQuiz)
	c.opts.Logger.Debug().Stringer("token", tok).Str("variant", string(req.Variant)).Msg("quiz started")
	return tok, req, nil
}

// ExecuteQuiz performs the network call. It changes no state.
func (c *Controller) ExecuteQuiz(ctx context.Context, tok correlate.Token, req backend.QuizRequest) QuizResult {
	start := time.Now()
	raw, err := c.backend.GenerateQuiz(ctx, req)
	return QuizResult{Token: tok, Request: req, Raw: raw, Err: err, Latency: time.Since(start)}
}

// CompleteQuiz applies res when it is still the newest quiz request and
// reports whether it was applied. A failure keeps the previous quiz and
// sets the banner.
func (c *Controller) CompleteQuiz(ctx context.Context, res QuizResult) bool {
	defer c.leave(ActionQuiz)

	applied := c.corr.TryResolve(res.Token)
	ev := journal.RequestEventData{
		Action:    string(ActionQuiz),
		Token:     res.Token.String(),
		Success:   res.Err == nil,
		Applied:   applied,
		LatencyMs: res.Latency.Milliseconds(),
	}

	switch {
	case res.Err != nil:
		ev.ErrorMessage = UserMessage(res.Err)
		if applied {
			c.fail(res.Err)
		}
		c.opts.Logger.Warn().Err(res.Err).Stringer("token", res.Token).Bool("applied", applied).Msg("quiz failed")
	case applied:
		decoded := normalize.Decode(res.Raw)
		quiz := normalize.NormalizeQuiz(res.Raw)
		if decoded.Err != nil {
			c.opts.Logger.Debug().Err(decoded.Err).Msg("quiz payload not recognized")
		}
		c.mu.Lock()
		c.quiz = QuizState{Request: res.Request, Quiz: quiz, Shape: decoded.Shape, Ready: true}
		c.mu.Unlock()
		ev.Shape = string(decoded.Shape)
		ev.Summary = quizSummary(res.Request, len(quiz.Questions))
	default:
		c.opts.Logger.Debug().Stringer("token", res.Token).Msg("stale quiz result dropped")
	}

	c.record(ctx, ev)
	return applied
}

// GenerateQuiz runs a quiz request synchronously and returns the resulting
// quiz state.
func (c *Controller) GenerateQuiz(ctx context.Context, req backend.QuizRequest) (QuizState, error) {
	tok, req, err := c.BeginQuiz(req)
	if err != nil {
		return QuizState{}, err
	}
	res := c.ExecuteQuiz(ctx, tok, req)
	c.CompleteQuiz(ctx, res)
	if res.Err != nil {
		return QuizState{}, res.Err
	}
	return c.Quiz(), nil
}
