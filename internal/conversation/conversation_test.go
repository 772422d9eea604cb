package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studybuddy/internal/correlate"
	"github.com/abhisek/studybuddy/internal/normalize"
)

func answer(text string) normalize.Answer {
	return normalize.Answer{Text: text, Source: normalize.Source{Kind: normalize.SourceMain}}
}

func TestAppendPending(t *testing.T) {
	log := NewLog(correlate.New())

	tok, err := log.AppendPending("  What is osmosis?  ")
	require.NoError(t, err)

	turns := log.Snapshot()
	require.Len(t, turns, 1)
	assert.Equal(t, tok, turns[0].ID)
	assert.Equal(t, "What is osmosis?", turns[0].Query)
	assert.Equal(t, Pending, turns[0].State)
	assert.Nil(t, turns[0].Answer)
	assert.False(t, turns[0].SubmittedAt.IsZero())
}

func TestAppendPending_RejectsBlankQuery(t *testing.T) {
	corr := correlate.New()
	log := NewLog(corr)

	_, err := log.AppendPending("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, 0, log.Len())
	assert.Equal(t, 0, corr.Outstanding(), "no token is issued for a rejected query")
}

func TestDuplicateQueriesResolveIndependently(t *testing.T) {
	log := NewLog(correlate.New())

	first, err := log.AppendPending("A")
	require.NoError(t, err)
	second, err := log.AppendPending("A")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Results arrive in reverse order.
	assert.True(t, log.Settle(second, ResolvedWith(answer("answer two"))))
	assert.True(t, log.Settle(first, ResolvedWith(answer("answer one"))))

	turns := log.Snapshot()
	require.Len(t, turns, 2)
	assert.Equal(t, "A", turns[0].Query)
	assert.Equal(t, "answer one", *turns[0].Answer)
	assert.Equal(t, "A", turns[1].Query)
	assert.Equal(t, "answer two", *turns[1].Answer)
	assert.Equal(t, 0, log.Pending())
}

func TestFinalizeOnlyOnce(t *testing.T) {
	log := NewLog(correlate.New())
	tok, err := log.AppendPending("q")
	require.NoError(t, err)

	assert.True(t, log.Finalize(tok, ResolvedWith(answer("first"))))
	assert.False(t, log.Finalize(tok, ResolvedWith(answer("second"))))
	assert.False(t, log.Finalize(tok, FailedWith("boom")))

	turn, ok := log.Get(tok)
	require.True(t, ok)
	assert.Equal(t, Resolved, turn.State)
	assert.Equal(t, "first", *turn.Answer)
	assert.Equal(t, normalize.SourceMain, turn.Source.Kind)
	assert.Empty(t, turn.FailureReason)
	assert.False(t, turn.FinishedAt.IsZero())
}

func TestFinalizeUnknownTokenIsNoop(t *testing.T) {
	log := NewLog(correlate.New())
	_, err := log.AppendPending("q")
	require.NoError(t, err)

	assert.False(t, log.Finalize(correlate.Token(42), FailedWith("x")))
	assert.Equal(t, 1, log.Pending())
}

func TestFailedTurnKeepsReason(t *testing.T) {
	log := NewLog(correlate.New())
	tok, err := log.AppendPending("q")
	require.NoError(t, err)

	assert.True(t, log.Settle(tok, FailedWith("service unreachable")))

	turn, _ := log.Get(tok)
	assert.Equal(t, Failed, turn.State)
	assert.Equal(t, "service unreachable", turn.FailureReason)
	assert.Nil(t, turn.Answer)
}

func TestSettleAfterCompletionFailsAsSuperseded(t *testing.T) {
	corr := correlate.New()
	log := NewLog(corr)
	tok, err := log.AppendPending("q")
	require.NoError(t, err)

	corr.Complete(tok)

	assert.False(t, log.Settle(tok, ResolvedWith(answer("late"))))
	turn, _ := log.Get(tok)
	assert.Equal(t, Failed, turn.State)
	assert.Equal(t, ReasonSuperseded, turn.FailureReason)
}

func TestSnapshotIsACopy(t *testing.T) {
	log := NewLog(correlate.New())
	tok, err := log.AppendPending("q")
	require.NoError(t, err)
	log.Finalize(tok, ResolvedWith(answer("original")))

	snap := log.Snapshot()
	*snap[0].Answer = "mutated"
	snap[0].State = Failed

	turn, _ := log.Get(tok)
	assert.Equal(t, "original", *turn.Answer)
	assert.Equal(t, Resolved, turn.State)
}

func TestSnapshotPreservesSubmissionOrder(t *testing.T) {
	log := NewLog(correlate.New())
	queries := []string{"one", "two", "three"}
	toks := make([]correlate.Token, len(queries))
	for i, q := range queries {
		tok, err := log.AppendPending(q)
		require.NoError(t, err)
		toks[i] = tok
	}
	log.Settle(toks[1], ResolvedWith(answer("2")))

	turns := log.Snapshot()
	for i, q := range queries {
		assert.Equal(t, q, turns[i].Query)
	}
	assert.Equal(t, []State{Pending, Resolved, Pending}, []State{turns[0].State, turns[1].State, turns[2].State})
}

func TestConcurrentAppendsKeepTokenOrder(t *testing.T) {
	log := NewLog(correlate.New())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := log.AppendPending(fmt.Sprintf("question %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	turns := log.Snapshot()
	require.Len(t, turns, 16)
	for i := 1; i < len(turns); i++ {
		assert.Less(t, turns[i-1].ID, turns[i].ID, "turn %d out of order", i)
	}
}
