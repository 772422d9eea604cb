package correlate

import (
	"fmt"
	"sync"
)

// Token identifies one submitted action. Tokens are issued in increasing
// order starting at 1; the zero Token is never issued.
type Token uint64

func (t Token) String() string {
	return fmt.Sprintf("req-%d", uint64(t))
}

// Slot groups actions where only the newest one matters, such as quiz
// generation: beginning a new action in a slot makes every older token in
// that slot stale. Actions begun with NoSlot never go stale.
type Slot string

// NoSlot marks an action whose result is always applied to its own target.
const NoSlot Slot = ""

// Correlator issues tokens and decides whether a completed action's result
// may still be applied. It is safe for concurrent use.
type Correlator struct {
	mu          sync.Mutex
	last        Token
	slots       map[Token]Slot
	current     map[Slot]Token
	outstanding map[Token]struct{}
}

// New creates an empty Correlator.
func New() *Correlator {
	return &Correlator{
		slots:       make(map[Token]Slot),
		current:     make(map[Slot]Token),
		outstanding: make(map[Token]struct{}),
	}
}

// Begin issues a fresh token and registers it as outstanding. For a named
// slot the token also becomes the slot's current token.
func (c *Correlator) Begin(slot Slot) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last++
	t := c.last
	c.slots[t] = slot
	c.outstanding[t] = struct{}{}
	if slot != NoSlot {
		c.current[slot] = t
	}
	return t
}

// IsCurrent reports whether no newer action has begun in t's slot. Tokens
// that were never issued are not current.
func (c *Correlator) IsCurrent(t Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCurrent(t)
}

func (c *Correlator) isCurrent(t Token) bool {
	slot, ok := c.slots[t]
	if !ok {
		return false
	}
	if slot == NoSlot {
		return true
	}
	return c.current[slot] == t
}

// Complete marks t as no longer outstanding. Completing twice, or
// completing an unknown token, does nothing.
func (c *Correlator) Complete(t Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.outstanding, t)
}

// TryResolve completes t and reports whether its result may be applied:
// it was still outstanding and is still current. Only the first call for a
// token can return true.
func (c *Correlator) TryResolve(t Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, pending := c.outstanding[t]
	delete(c.outstanding, t)
	return pending && c.isCurrent(t)
}

// IsOutstanding reports whether t was issued and has not completed.
func (c *Correlator) IsOutstanding(t Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.outstanding[t]
	return ok
}

// Outstanding returns the number of issued, uncompleted tokens.
func (c *Correlator) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outstanding)
}

// Current returns the newest token issued for slot.
func (c *Correlator) Current(slot Slot) (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.current[slot]
	return t, ok
}
