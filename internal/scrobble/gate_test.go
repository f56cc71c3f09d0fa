package scrobble

import (
	"testing"
	"time"
)

func TestGate(t *testing.T) {
	t.Run("first attempt passes", func(t *testing.T) {
		g := NewGate(30 * time.Second)
		if !g.ShouldRun(time.Now()) {
			t.Error("a fresh gate should allow the first attempt")
		}
	})

	t.Run("attempts inside the window are blocked", func(t *testing.T) {
		g := NewGate(30 * time.Second)
		base := time.Now()

		g.ShouldRun(base)
		if g.ShouldRun(base.Add(10 * time.Second)) {
			t.Error("attempt 10s into a 30s window should be blocked")
		}
		if g.ShouldRun(base.Add(29 * time.Second)) {
			t.Error("attempt 29s into a 30s window should be blocked")
		}
	})

	t.Run("window boundary reopens the gate", func(t *testing.T) {
		g := NewGate(30 * time.Second)
		base := time.Now()

		g.ShouldRun(base)
		if !g.ShouldRun(base.Add(30 * time.Second)) {
			t.Error("attempt exactly at the window boundary should pass")
		}
	})

	t.Run("passing restarts the window", func(t *testing.T) {
		g := NewGate(30 * time.Second)
		base := time.Now()

		g.ShouldRun(base)
		g.ShouldRun(base.Add(30 * time.Second))
		if g.ShouldRun(base.Add(45 * time.Second)) {
			t.Error("window should restart from the last passing attempt")
		}
	})

	t.Run("non-positive interval uses the default", func(t *testing.T) {
		g := NewGate(0)
		if g.interval != DefaultDebounceInterval {
			t.Errorf("expected default interval %v, got %v", DefaultDebounceInterval, g.interval)
		}
	})
}
