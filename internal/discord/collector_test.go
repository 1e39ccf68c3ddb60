package discord

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/hitsquad/panela/internal/model"
)

func TestMentionCollector_ClaimResolvesArmedPick(t *testing.T) {
	t.Parallel()

	c := NewMentionCollector(time.Minute)
	c.Arm("guild-1", "user-1", model.SlotFirstLady, func() {
		t.Error("expiry must not fire for a claimed pick")
	})

	slot, ok := c.Claim("guild-1", "user-1")
	if !ok || slot != model.SlotFirstLady {
		t.Fatalf("expected first-lady pick, got %q ok=%v", slot, ok)
	}

	// A second claim finds nothing.
	if _, ok := c.Claim("guild-1", "user-1"); ok {
		t.Error("claimed pick should be gone")
	}
}

func TestMentionCollector_ClaimIsScopedToInvokerAndGuild(t *testing.T) {
	t.Parallel()

	c := NewMentionCollector(time.Minute)
	c.Arm("guild-1", "user-1", model.SlotAntiBan, func() {})

	if _, ok := c.Claim("guild-1", "user-2"); ok {
		t.Error("another user must not claim the pick")
	}
	if _, ok := c.Claim("guild-2", "user-1"); ok {
		t.Error("another guild must not claim the pick")
	}
	if _, ok := c.Claim("guild-1", "user-1"); !ok {
		t.Error("the armed invoker should still be able to claim")
	}
}

func TestMentionCollector_ClaimPrefersLatestPick(t *testing.T) {
	t.Parallel()

	c := NewMentionCollector(time.Minute)
	c.Arm("guild-1", "user-1", model.SlotFirstLady, func() {})
	time.Sleep(5 * time.Millisecond)
	c.Arm("guild-1", "user-1", model.SlotCapacity, func() {})

	slot, ok := c.Claim("guild-1", "user-1")
	if !ok || slot != model.SlotCapacity {
		t.Errorf("expected the latest pick, got %q ok=%v", slot, ok)
	}

	// The older pick for the other slot is still armed.
	slot, ok = c.Claim("guild-1", "user-1")
	if !ok || slot != model.SlotFirstLady {
		t.Errorf("expected the earlier pick to survive, got %q ok=%v", slot, ok)
	}
}

func TestMentionCollector_RearmingSameSlotCancelsOldSilently(t *testing.T) {
	t.Parallel()

	var expired atomic.Int32
	c := NewMentionCollector(20 * time.Millisecond)
	c.Arm("guild-1", "user-1", model.SlotFirstLady, func() {
		t.Error("replaced pick must not fire its expiry")
	})
	c.Arm("guild-1", "user-1", model.SlotFirstLady, func() {
		expired.Add(1)
	})

	time.Sleep(100 * time.Millisecond)
	if got := expired.Load(); got != 1 {
		t.Errorf("expected exactly one expiry, got %d", got)
	}
}

func TestMentionCollector_ExpiryFiresOnce(t *testing.T) {
	t.Parallel()

	var expired atomic.Int32
	c := NewMentionCollector(10 * time.Millisecond)
	c.Arm("guild-1", "user-1", model.SlotAntiBan, func() {
		expired.Add(1)
	})

	time.Sleep(80 * time.Millisecond)
	if got := expired.Load(); got != 1 {
		t.Errorf("expected one expiry, got %d", got)
	}
	if _, ok := c.Claim("guild-1", "user-1"); ok {
		t.Error("expired pick must not be claimable")
	}
}
