package scrobble

import (
	"sync"
	"time"
)

// DefaultDebounceInterval is the cooldown between reconciliation runs
// triggered by progress notifications.
const DefaultDebounceInterval = 30 * time.Second

// Gate rate-limits how often reconciliation runs in response to progress
// notifications. Stop notifications bypass the gate entirely.
//
// The cooldown timestamp is process-wide, shared across all playback
// sessions: a progress event from one session delays progress events from
// every other session. A per-session window would decouple users from each
// other, but it changes the observable scrobble cadence, so the shared
// window is kept.
type Gate struct {
	mu          sync.Mutex
	interval    time.Duration
	nextAllowed time.Time
}

// NewGate creates a Gate with the given cooldown interval.
// A non-positive interval falls back to [DefaultDebounceInterval].
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	return &Gate{interval: interval}
}

// ShouldRun reports whether a reconciliation attempt may proceed at the
// given instant, and if so opens the next cooldown window.
func (g *Gate) ShouldRun(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Before(g.nextAllowed) {
		return false
	}
	g.nextAllowed = now.Add(g.interval)
	return true
}
