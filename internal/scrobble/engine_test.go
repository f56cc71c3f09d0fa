package scrobble

import (
	"testing"

	"github.com/desertthunder/anisync/internal/anilist"
)

func intp(n int) *int { return &n }

func entryWith(status anilist.MediaListStatus, progress, repeat int) *anilist.ListEntry {
	return &anilist.ListEntry{ID: intp(42), MediaID: 1, Progress: progress, Status: status, Repeat: repeat}
}

func assertPush(t *testing.T, d Decision, status anilist.MediaListStatus, progress int) {
	t.Helper()
	if !d.Update {
		t.Fatalf("expected an update, got no-op (%s)", d.Reason)
	}
	if d.Status == nil || *d.Status != status {
		t.Errorf("expected status %s, got %v", status, d.Status)
	}
	if d.Progress == nil || *d.Progress != progress {
		t.Errorf("expected progress %d, got %v", progress, d.Progress)
	}
}

func assertNoop(t *testing.T, d Decision) {
	t.Helper()
	if d.Update {
		t.Fatalf("expected no-op, got update to %v", d.Status)
	}
	if d.Reason == "" {
		t.Error("no-op decisions should carry a reason")
	}
}

func TestDecide(t *testing.T) {
	t.Run("no remote entry creates a watching entry", func(t *testing.T) {
		d := Decide(nil, 3, intp(12), false)
		assertPush(t, d, anilist.StatusCurrent, 3)
		if d.Repeat != nil {
			t.Error("first watch should not touch the rewatch counter")
		}
	})

	t.Run("watching ahead of remote advances progress", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusCurrent, 3, 0), 4, intp(12), false)
		assertPush(t, d, anilist.StatusCurrent, 4)
	})

	t.Run("watching behind remote is a no-op", func(t *testing.T) {
		assertNoop(t, Decide(entryWith(anilist.StatusCurrent, 5, 0), 4, intp(12), false))
		assertNoop(t, Decide(entryWith(anilist.StatusCurrent, 4, 0), 4, intp(12), false))
	})

	t.Run("planning becomes watching", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusPlanning, 0, 0), 1, intp(12), false)
		assertPush(t, d, anilist.StatusCurrent, 1)
	})

	t.Run("dropped and paused resume watching", func(t *testing.T) {
		for _, status := range []anilist.MediaListStatus{anilist.StatusDropped, anilist.StatusPaused} {
			d := Decide(entryWith(status, 6, 0), 7, intp(12), false)
			assertPush(t, d, anilist.StatusCurrent, 7)
		}
	})

	t.Run("paused behind remote still pushes", func(t *testing.T) {
		// Unlike watching, the status transition itself is the point.
		d := Decide(entryWith(anilist.StatusPaused, 6, 0), 3, intp(12), false)
		assertPush(t, d, anilist.StatusCurrent, 3)
	})

	t.Run("completed with rewatches disabled", func(t *testing.T) {
		assertNoop(t, Decide(entryWith(anilist.StatusCompleted, 12, 0), 1, intp(12), false))
	})

	t.Run("completed starts a rewatch only from episode one", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusCompleted, 12, 0), 1, intp(12), true)
		assertPush(t, d, anilist.StatusRepeating, 1)

		assertNoop(t, Decide(entryWith(anilist.StatusCompleted, 12, 0), 5, intp(12), true))
	})

	t.Run("repeating advances like watching", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusRepeating, 4, 1), 5, intp(12), true)
		assertPush(t, d, anilist.StatusRepeating, 5)

		assertNoop(t, Decide(entryWith(anilist.StatusRepeating, 5, 1), 5, intp(12), true))
	})

	t.Run("repeating with rewatches disabled", func(t *testing.T) {
		assertNoop(t, Decide(entryWith(anilist.StatusRepeating, 4, 1), 5, intp(12), false))
	})

	t.Run("last episode completes the title", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusCurrent, 11, 0), 12, intp(12), false)
		assertPush(t, d, anilist.StatusCompleted, 12)
		if d.Repeat != nil {
			t.Error("completing a first watch should not touch the rewatch counter")
		}
	})

	t.Run("finishing a rewatch bumps the counter", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusRepeating, 11, 2), 12, intp(12), true)
		assertPush(t, d, anilist.StatusCompleted, 12)
		if d.Repeat == nil || *d.Repeat != 3 {
			t.Errorf("expected rewatch counter 3, got %v", d.Repeat)
		}
	})

	t.Run("single episode rewatch completes immediately", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusCompleted, 1, 0), 1, intp(1), true)
		assertPush(t, d, anilist.StatusCompleted, 1)
		if d.Repeat == nil || *d.Repeat != 1 {
			t.Errorf("expected rewatch counter 1, got %v", d.Repeat)
		}
	})

	t.Run("unknown episode count never completes", func(t *testing.T) {
		d := Decide(entryWith(anilist.StatusCurrent, 11, 0), 12, nil, false)
		assertPush(t, d, anilist.StatusCurrent, 12)
	})

	t.Run("new entry on the final episode completes", func(t *testing.T) {
		d := Decide(nil, 1, intp(1), false)
		assertPush(t, d, anilist.StatusCompleted, 1)
		if d.Repeat != nil {
			t.Error("first watch of a single-episode title should not touch the rewatch counter")
		}
	})
}
