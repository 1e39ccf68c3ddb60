package discord

import (
	"sync"
	"time"

	"github.com/hitsquad/panela/internal/model"
)

type collectorKey struct {
	guildID   string
	invokerID string
	slot      model.Slot
}

type pendingPick struct {
	key     collectorKey
	armedAt time.Time
	timer   *time.Timer
}

// MentionCollector tracks which invokers still owe the bot a target mention.
// Pressing a slot button arms a pick; the invoker's next message mentioning
// exactly one other user claims it. At most one pick is active per
// (invoker, slot) pair and arming a new one cancels the old without firing
// its expiry callback.
type MentionCollector struct {
	mu      sync.Mutex
	pending map[collectorKey]*pendingPick
	timeout time.Duration
}

// NewMentionCollector creates a collector with the given pick window.
func NewMentionCollector(timeout time.Duration) *MentionCollector {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &MentionCollector{
		pending: make(map[collectorKey]*pendingPick),
		timeout: timeout,
	}
}

// Arm starts a pick for the invoker and slot. onExpire fires once if the
// window elapses without a claim; a replaced or claimed pick never fires it.
func (c *MentionCollector) Arm(guildID, invokerID string, slot model.Slot, onExpire func()) {
	key := collectorKey{guildID: guildID, invokerID: invokerID, slot: slot}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.pending[key]; ok {
		old.timer.Stop()
	}

	pick := &pendingPick{key: key, armedAt: time.Now()}
	pick.timer = time.AfterFunc(c.timeout, func() {
		if c.expire(key, pick) {
			onExpire()
		}
	})
	c.pending[key] = pick
}

// Claim resolves the invoker's most recently armed pick, if any, and cancels
// it. Picks for other slots stay armed.
func (c *MentionCollector) Claim(guildID, invokerID string) (model.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var latest *pendingPick
	for key, pick := range c.pending {
		if key.guildID != guildID || key.invokerID != invokerID {
			continue
		}
		if latest == nil || pick.armedAt.After(latest.armedAt) {
			latest = pick
		}
	}
	if latest == nil {
		return "", false
	}

	latest.timer.Stop()
	delete(c.pending, latest.key)
	return latest.key.slot, true
}

// expire removes the pick if it is still the registered one. Returns false
// when the pick was already claimed or replaced.
func (c *MentionCollector) expire(key collectorKey, pick *pendingPick) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.pending[key]
	if !ok || current != pick {
		return false
	}
	delete(c.pending, key)
	return true
}
