package interpreter

import (
	"testing"
	"time"

	"github.com/fentz26/nudge/internal/models"
)

func TestAttentiveWindowBoundary(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	c := NewContext(5*time.Minute, false)
	c.Wake("u1", base)

	state, ok := c.Get("u1", base.Add(4*time.Minute+59*time.Second))
	if !ok || !state.Live(base.Add(4*time.Minute+59*time.Second)) {
		t.Fatal("Window should be open just before expiry")
	}

	state, _ = c.Get("u1", base.Add(5*time.Minute+time.Second))
	if state.Live(base.Add(5 * time.Minute)) {
		t.Error("Window should be closed after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("Expired state should be dropped on read, have %d entries", c.Len())
	}
}

func TestFixedWindowDoesNotSlide(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	c := NewContext(5*time.Minute, false)
	c.Wake("u1", base)
	c.Touch("u1", base.Add(4*time.Minute))

	state, _ := c.Get("u1", base.Add(4*time.Minute))
	if state.Live(base.Add(6 * time.Minute)) {
		t.Error("Fixed window must not extend on activity")
	}
}

func TestSlidingWindowExtends(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	c := NewContext(5*time.Minute, true)
	c.Wake("u1", base)
	c.Touch("u1", base.Add(4*time.Minute))

	state, _ := c.Get("u1", base.Add(8*time.Minute))
	if !state.Live(base.Add(8 * time.Minute)) {
		t.Error("Sliding window should extend from the last activity")
	}
}

func TestArmSlotReopensWindow(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	c := NewContext(5*time.Minute, false)

	c.ArmSlot("u1", PendingSlot{
		Kind:     PendingTime,
		Entities: models.Entities{Task: "call mom"},
	}, base)

	state, ok := c.Get("u1", base.Add(time.Minute))
	if !ok || state.Pending == nil {
		t.Fatal("Armed slot should survive within the window")
	}
	if state.Pending.Entities.Task != "call mom" {
		t.Errorf("Pending task = %q", state.Pending.Entities.Task)
	}
	if !state.Live(base.Add(time.Minute)) {
		t.Error("Arming a slot should open the window")
	}

	c.ClearSlot("u1", base.Add(time.Minute))
	state, _ = c.Get("u1", base.Add(time.Minute))
	if state.Pending != nil {
		t.Error("ClearSlot should drop the pending slot")
	}
}

func TestSweep(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	c := NewContext(5*time.Minute, false)
	c.Wake("u1", base)
	c.Wake("u2", base.Add(3*time.Minute))

	removed := c.Sweep(base.Add(6 * time.Minute))
	if removed != 1 {
		t.Fatalf("Sweep removed %d states, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", c.Len())
	}
}
