package interpreter

import (
	"sync"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

// DefaultAttentiveWindow is how long a user stays attentive after a wake.
const DefaultAttentiveWindow = 5 * time.Minute

// PendingKind identifies what a slot-fill request is waiting for.
type PendingKind string

// PendingTime means the agent is waiting for a time phrase for a reminder.
const PendingTime PendingKind = "awaiting_time"

// PendingSlot holds a partially assembled reminder awaiting one more field.
type PendingSlot struct {
	Kind       PendingKind
	Entities   models.Entities
	Confidence float64
}

// State is the conversation state for one user. The zero value is idle.
type State struct {
	AttentiveUntil time.Time
	Pending        *PendingSlot
}

// Live reports whether the attentive window is still open at the given time.
// An expired state is equivalent to no state; callers must never trust a
// cached answer across clock values.
func (s State) Live(now time.Time) bool {
	return !s.AttentiveUntil.IsZero() && s.AttentiveUntil.After(now)
}

// Context tracks per-user conversation state. Expiry is evaluated lazily on
// access against a caller-supplied clock; there is no background timer.
// Access to the map is serialized; entries for different users never interact.
type Context struct {
	mu      sync.Mutex
	window  time.Duration
	sliding bool
	states  map[string]*State
	turns   map[string]*sync.Mutex
}

// NewContext creates a conversation context. window <= 0 selects the default
// five-minute attentive window. sliding controls whether in-window messages
// refresh the window or it stays fixed from the wake event.
func NewContext(window time.Duration, sliding bool) *Context {
	if window <= 0 {
		window = DefaultAttentiveWindow
	}
	return &Context{
		window:  window,
		sliding: sliding,
		states:  make(map[string]*State),
		turns:   make(map[string]*sync.Mutex),
	}
}

// Acquire takes the turn lock for a user and returns it for the caller to
// release. One user's messages are processed one turn at a time: a snapshot
// of the state taken under the turn lock stays valid until release, so a
// pending slot cannot be answered twice by interleaved messages. Turn locks
// are never removed from the map; Sweep only prunes states, and a lock entry
// outliving its state is two words per distinct author.
func (c *Context) Acquire(authorID string) *sync.Mutex {
	c.mu.Lock()
	m, ok := c.turns[authorID]
	if !ok {
		m = &sync.Mutex{}
		c.turns[authorID] = m
	}
	c.mu.Unlock()
	m.Lock()
	return m
}

// Get returns a copy of the user's state, dropping it first if expired.
func (c *Context) Get(authorID string, now time.Time) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.states[authorID]
	if !ok {
		return State{}, false
	}
	if !s.Live(now) {
		delete(c.states, authorID)
		return State{}, false
	}
	return *s, true
}

// Wake opens (or reopens) the attentive window for a user.
func (c *Context) Wake(authorID string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state(authorID, now)
	s.AttentiveUntil = now.Add(c.window)
}

// Touch refreshes the window for an in-session message when the sliding
// policy is enabled; under the fixed policy it is a no-op.
func (c *Context) Touch(authorID string, now time.Time) {
	if !c.sliding {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state(authorID, now)
	if s.Live(now) {
		s.AttentiveUntil = now.Add(c.window)
	}
}

// ArmSlot records a pending slot-fill request. The attentive window is not
// extended by arming a slot.
func (c *Context) ArmSlot(authorID string, slot PendingSlot, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state(authorID, now)
	if !s.Live(now) {
		// The window closed during this turn; reopen it so the follow-up
		// question is not asked into the void.
		s.AttentiveUntil = now.Add(c.window)
	}
	s.Pending = &slot
}

// ClearSlot resolves a pending slot-fill request, returning to plain attentive.
func (c *Context) ClearSlot(authorID string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[authorID]; ok {
		s.Pending = nil
	}
}

// Sweep removes expired entries to bound map growth and returns the number
// removed. Correctness never depends on it being called.
func (c *Context) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, s := range c.states {
		if !s.Live(now) {
			delete(c.states, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked states, live or not.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

// state returns the entry for a user, creating or recycling it as needed.
// Callers hold the mutex.
func (c *Context) state(authorID string, now time.Time) *State {
	s, ok := c.states[authorID]
	if !ok || !s.Live(now) {
		s = &State{}
		c.states[authorID] = s
	}
	return s
}
