package conversation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/studybuddy/internal/correlate"
	"github.com/abhisek/studybuddy/internal/normalize"
)

// State is the lifecycle state of a turn. A turn moves from Pending to
// exactly one of Resolved or Failed and never changes again.
type State string

const (
	Pending  State = "pending"
	Resolved State = "resolved"
	Failed   State = "failed"
)

// ReasonSuperseded is the failure reason for a turn whose result arrived
// after it stopped being applicable.
const ReasonSuperseded = "superseded"

// ErrEmptyQuery is returned when a blank query is submitted.
var ErrEmptyQuery = errors.New("query must not be empty")

// Turn is one query and its eventual answer.
type Turn struct {
	ID    correlate.Token
	Query string
	State State

	// Answer is set once the turn is Resolved.
	Answer *string
	Source normalize.Source

	// FailureReason is set once the turn is Failed.
	FailureReason string

	SubmittedAt time.Time
	FinishedAt  time.Time
}

// Outcome is the terminal result applied to a pending turn.
type Outcome struct {
	state  State
	answer normalize.Answer
	reason string
}

// ResolvedWith builds a successful outcome.
func ResolvedWith(a normalize.Answer) Outcome {
	return Outcome{state: Resolved, answer: a}
}

// FailedWith builds a failed outcome with a short, user-facing reason.
func FailedWith(reason string) Outcome {
	return Outcome{state: Failed, reason: reason}
}

// Log is the ordered conversation for a session. Turns are appended in
// submission order and never removed. Each turn is owned by the log and
// changes only through the resolution carrying its token.
type Log struct {
	mu    sync.Mutex
	corr  *correlate.Correlator
	turns []Turn
	index map[correlate.Token]int
	now   func() time.Time
}

// NewLog creates an empty log that issues tokens from corr.
func NewLog(corr *correlate.Correlator) *Log {
	return &Log{
		corr:  corr,
		index: make(map[correlate.Token]int),
		now:   time.Now,
	}
}

// AppendPending records a new pending turn and returns its token. Every
// call issues a distinct token, so identical queries produce distinct turns.
func (l *Log) AppendPending(query string) (correlate.Token, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, ErrEmptyQuery
	}

	// Tokens are issued under the lock so turns are stored in token order.
	l.mu.Lock()
	defer l.mu.Unlock()
	tok := l.corr.Begin(correlate.NoSlot)
	l.index[tok] = len(l.turns)
	l.turns = append(l.turns, Turn{
		ID:          tok,
		Query:       query,
		State:       Pending,
		SubmittedAt: l.now(),
	})
	return tok, nil
}

// Finalize applies o to the turn identified by tok. It reports whether the
// turn changed: unknown tokens and turns that are already Resolved or
// Failed are left untouched.
func (l *Log) Finalize(tok correlate.Token, o Outcome) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[tok]
	if !ok || l.turns[i].State != Pending {
		return false
	}

	turn := &l.turns[i]
	turn.State = o.state
	turn.FinishedAt = l.now()
	switch o.state {
	case Resolved:
		text := o.answer.Text
		turn.Answer = &text
		turn.Source = o.answer.Source
	case Failed:
		turn.FailureReason = o.reason
	}
	return true
}

// Settle resolves tok through the correlator and finalizes the turn with o
// when the result may still be applied. A result that may not be applied
// fails the turn as superseded, so no turn stays pending forever.
func (l *Log) Settle(tok correlate.Token, o Outcome) bool {
	if l.corr.TryResolve(tok) {
		return l.Finalize(tok, o)
	}
	l.Finalize(tok, FailedWith(ReasonSuperseded))
	return false
}

// Snapshot returns a copy of all turns, oldest first.
func (l *Log) Snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	for i := range out {
		if out[i].Answer != nil {
			a := *out[i].Answer
			out[i].Answer = &a
		}
	}
	return out
}

// Get returns the turn for tok.
func (l *Log) Get(tok correlate.Token) (Turn, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[tok]
	if !ok {
		return Turn{}, false
	}
	t := l.turns[i]
	if t.Answer != nil {
		a := *t.Answer
		t.Answer = &a
	}
	return t, true
}

// Len returns the number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Pending returns the number of turns still waiting for a result.
func (l *Log) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, t := range l.turns {
		if t.State == Pending {
			n++
		}
	}
	return n
}
