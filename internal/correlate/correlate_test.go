package correlate

import (
	"sync"
	"testing"
)

const quizSlot Slot = "quiz"

func TestBeginIssuesIncreasingTokens(t *testing.T) {
	c := New()
	a := c.Begin(NoSlot)
	b := c.Begin(quizSlot)
	if a == 0 || b <= a {
		t.Fatalf("expected increasing non-zero tokens, got %v then %v", a, b)
	}
	if c.Outstanding() != 2 {
		t.Fatalf("expected 2 outstanding, got %d", c.Outstanding())
	}
	if a.String() != "req-1" {
		t.Errorf("String() = %q, want %q", a.String(), "req-1")
	}
}

func TestSlotSupersedesOlderTokens(t *testing.T) {
	c := New()
	first := c.Begin(quizSlot)
	second := c.Begin(quizSlot)

	if c.IsCurrent(first) {
		t.Error("first quiz token should be stale after a newer Begin")
	}
	if !c.IsCurrent(second) {
		t.Error("second quiz token should be current")
	}
	if c.TryResolve(first) {
		t.Error("stale token must not resolve")
	}
	if c.IsOutstanding(first) {
		t.Error("TryResolve should complete the stale token")
	}
	if !c.TryResolve(second) {
		t.Error("current token should resolve")
	}
	if cur, ok := c.Current(quizSlot); !ok || cur != second {
		t.Errorf("Current(quiz) = %v, %v; want %v", cur, ok, second)
	}
}

func TestUnslottedTokensStayCurrent(t *testing.T) {
	c := New()
	first := c.Begin(NoSlot)
	second := c.Begin(NoSlot)

	if !c.IsCurrent(first) || !c.IsCurrent(second) {
		t.Fatal("unslotted tokens are always current")
	}
	// Completing out of order must still resolve both.
	if !c.TryResolve(second) {
		t.Error("second should resolve")
	}
	if !c.TryResolve(first) {
		t.Error("first should resolve")
	}
}

func TestSlotsAreIndependent(t *testing.T) {
	c := New()
	quiz := c.Begin(quizSlot)
	c.Begin("status")
	if !c.IsCurrent(quiz) {
		t.Error("a Begin in another slot must not supersede the quiz token")
	}
}

func TestTryResolveOnlyOnce(t *testing.T) {
	c := New()
	tok := c.Begin(NoSlot)
	if !c.TryResolve(tok) {
		t.Fatal("first TryResolve should succeed")
	}
	if c.TryResolve(tok) {
		t.Fatal("second TryResolve should fail")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	c := New()
	tok := c.Begin(NoSlot)
	c.Complete(tok)
	c.Complete(tok)
	c.Complete(Token(999))

	if c.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding, got %d", c.Outstanding())
	}
	if !c.IsCurrent(tok) {
		t.Error("completion does not affect currency")
	}
	if c.TryResolve(tok) {
		t.Error("completed token must not resolve")
	}
}

func TestUnknownTokenIsNotCurrent(t *testing.T) {
	c := New()
	if c.IsCurrent(Token(0)) || c.IsCurrent(Token(7)) {
		t.Error("tokens that were never issued are not current")
	}
}

func TestConcurrentBegin(t *testing.T) {
	c := New()
	const n = 64
	tokens := make(chan Token, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- c.Begin(NoSlot)
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[Token]bool)
	for tok := range tokens {
		if seen[tok] {
			t.Fatalf("duplicate token %v", tok)
		}
		seen[tok] = true
	}
	if c.Outstanding() != n {
		t.Fatalf("expected %d outstanding, got %d", n, c.Outstanding())
	}
}
