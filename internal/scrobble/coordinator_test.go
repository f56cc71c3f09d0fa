package scrobble

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/anisync/internal/anilist"
	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/shared"
)

// mockGateway is a test double for [Gateway]
type mockGateway struct {
	entry    *anilist.ListEntry
	episodes *int
	saveErr  error

	saveCalls  int
	savedInput anilist.SaveEntryInput
}

func (m *mockGateway) ListEntry(ctx context.Context, token string, mediaID int) (*anilist.ListEntry, error) {
	return m.entry, nil
}

func (m *mockGateway) EpisodeCount(ctx context.Context, mediaID int) (*int, error) {
	return m.episodes, nil
}

func (m *mockGateway) SaveListEntry(ctx context.Context, token string, input anilist.SaveEntryInput) (*anilist.ListEntry, error) {
	m.saveCalls++
	m.savedInput = input
	if m.saveErr != nil {
		return nil, m.saveErr
	}

	saved := &anilist.ListEntry{}
	if input.EntryID != nil {
		saved.ID = input.EntryID
	}
	if input.MediaID != nil {
		saved.MediaID = *input.MediaID
	}
	if input.Progress != nil {
		saved.Progress = *input.Progress
	}
	if input.Status != nil {
		saved.Status = *input.Status
	}
	if input.Repeat != nil {
		saved.Repeat = *input.Repeat
	}
	return saved, nil
}

// mockAccounts is a test double for [AccountSource]
type mockAccounts struct {
	policy *models.SyncPolicy
	token  string
}

func (m *mockAccounts) Policy(userID string) (*models.SyncPolicy, error) {
	return m.policy, nil
}

func (m *mockAccounts) AccessToken(userID string) (string, error) {
	return m.token, nil
}

// mockRecorder is a test double for [Recorder]
type mockRecorder struct {
	records []*models.ScrobbleRecord
}

func (m *mockRecorder) RecordScrobble(rec *models.ScrobbleRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func testEvent() models.PlaybackEvent {
	runtime := minutes(24)
	idx := 4
	return models.PlaybackEvent{
		SessionID:     "session-1",
		UserID:        "user-1",
		ItemID:        "item-a",
		ItemName:      "Cowboy Bebop",
		Kind:          models.KindEpisode,
		IndexNumber:   &idx,
		PositionTicks: runtime * 9 / 10,
		RuntimeTicks:  &runtime,
		AniListID:     "1",
	}
}

func testCoordinator(gateway *mockGateway, accounts *mockAccounts, recorder *mockRecorder) *Coordinator {
	return NewCoordinator(CoordinatorOpts{
		Gateway:  gateway,
		Accounts: accounts,
		Recorder: recorder,
		Logger:   shared.NewLogger(io.Discard),
	})
}

func authedAccounts() *mockAccounts {
	policy := testPolicy()
	return &mockAccounts{policy: &policy, token: "token"}
}

func TestCoordinator(t *testing.T) {
	ctx := context.Background()

	t.Run("pushes an update and records history", func(t *testing.T) {
		gateway := &mockGateway{
			entry:    entryWith(anilist.StatusCurrent, 3, 0),
			episodes: intp(26),
		}
		recorder := &mockRecorder{}
		c := testCoordinator(gateway, authedAccounts(), recorder)

		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 1 {
			t.Fatalf("expected 1 save call, got %d", gateway.saveCalls)
		}
		if gateway.savedInput.EntryID == nil || *gateway.savedInput.EntryID != 42 {
			t.Error("existing entries should be updated by entry id")
		}
		if gateway.savedInput.Progress == nil || *gateway.savedInput.Progress != 4 {
			t.Errorf("expected progress 4, got %v", gateway.savedInput.Progress)
		}

		if len(recorder.records) != 1 {
			t.Fatalf("expected 1 history record, got %d", len(recorder.records))
		}
		rec := recorder.records[0]
		if rec.MediaID() != 1 || rec.Progress() != 4 {
			t.Errorf("unexpected history record: media %d progress %d", rec.MediaID(), rec.Progress())
		}

		if !c.Ledger().Suppressed("session-1", "item-a") {
			t.Error("successful scrobble should be recorded in the ledger")
		}
	})

	t.Run("creates new entries by media id", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 1 {
			t.Fatalf("expected 1 save call, got %d", gateway.saveCalls)
		}
		if gateway.savedInput.MediaID == nil || *gateway.savedInput.MediaID != 1 {
			t.Error("new entries should be created by media id")
		}
	})

	t.Run("duplicate notifications are suppressed", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		c.HandleStop(ctx, testEvent())
		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 1 {
			t.Errorf("expected 1 save call for repeated notifications, got %d", gateway.saveCalls)
		}
	})

	t.Run("new item on the same session scrobbles again", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		c.HandleStop(ctx, testEvent())

		next := testEvent()
		next.ItemID = "item-b"
		idx := 5
		next.IndexNumber = &idx
		c.HandleStop(ctx, next)

		if gateway.saveCalls != 2 {
			t.Errorf("expected 2 save calls across two items, got %d", gateway.saveCalls)
		}
	})

	t.Run("progress events respect the debounce gate", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := NewCoordinator(CoordinatorOpts{
			Gateway:  gateway,
			Accounts: authedAccounts(),
			Gate:     NewGate(time.Hour),
			Logger:   shared.NewLogger(io.Discard),
		})

		// Consume the gate, then deliver a progress event inside the window.
		c.gate.ShouldRun(time.Now())
		c.HandleProgress(ctx, testEvent())

		if gateway.saveCalls != 0 {
			t.Errorf("expected gated progress event to push nothing, got %d calls", gateway.saveCalls)
		}
	})

	t.Run("stop events bypass the debounce gate", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := NewCoordinator(CoordinatorOpts{
			Gateway:  gateway,
			Accounts: authedAccounts(),
			Gate:     NewGate(time.Hour),
			Logger:   shared.NewLogger(io.Discard),
		})

		c.gate.ShouldRun(time.Now())
		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 1 {
			t.Errorf("expected stop event to push despite the gate, got %d calls", gateway.saveCalls)
		}
	})

	t.Run("skips users without an account", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := testCoordinator(gateway, &mockAccounts{}, &mockRecorder{})

		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 0 {
			t.Errorf("expected no calls without an account, got %d", gateway.saveCalls)
		}
	})

	t.Run("skips users without a token", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		policy := testPolicy()
		c := testCoordinator(gateway, &mockAccounts{policy: &policy}, &mockRecorder{})

		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 0 {
			t.Errorf("expected no calls without a token, got %d", gateway.saveCalls)
		}
	})

	t.Run("skips items without an AniList id", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		ev := testEvent()
		ev.AniListID = ""
		c.HandleStop(ctx, ev)

		if gateway.saveCalls != 0 {
			t.Errorf("expected no calls without an AniList id, got %d", gateway.saveCalls)
		}
	})

	t.Run("push failure leaves the ledger clear for retry", func(t *testing.T) {
		gateway := &mockGateway{
			episodes: intp(26),
			saveErr:  fmt.Errorf("%w: connection reset", shared.ErrTransport),
		}
		recorder := &mockRecorder{}
		c := testCoordinator(gateway, authedAccounts(), recorder)

		c.HandleStop(ctx, testEvent())

		if c.Ledger().Suppressed("session-1", "item-a") {
			t.Error("failed pushes must stay retryable")
		}
		if len(recorder.records) != 0 {
			t.Errorf("failed pushes should not appear in history, got %d records", len(recorder.records))
		}
	})

	t.Run("malformed responses stop the retry loop", func(t *testing.T) {
		gateway := &mockGateway{
			episodes: intp(26),
			saveErr:  fmt.Errorf("%w: invalid JSON", shared.ErrMalformedResponse),
		}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		c.HandleStop(ctx, testEvent())

		if !c.Ledger().Suppressed("session-1", "item-a") {
			t.Error("malformed responses should be recorded to avoid hammering the API")
		}
	})

	t.Run("no-op on stop records the ledger", func(t *testing.T) {
		gateway := &mockGateway{
			entry:    entryWith(anilist.StatusCurrent, 10, 0),
			episodes: intp(26),
		}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		c.HandleStop(ctx, testEvent())

		if gateway.saveCalls != 0 {
			t.Fatalf("remote ahead of local should push nothing, got %d calls", gateway.saveCalls)
		}
		if !c.Ledger().Suppressed("session-1", "item-a") {
			t.Error("stop no-ops should still be recorded so teardown events settle")
		}
	})

	t.Run("malformed AniList id is skipped", func(t *testing.T) {
		gateway := &mockGateway{episodes: intp(26)}
		c := testCoordinator(gateway, authedAccounts(), &mockRecorder{})

		ev := testEvent()
		ev.AniListID = "not-a-number"
		c.HandleStop(ctx, ev)

		if gateway.saveCalls != 0 {
			t.Errorf("expected no calls for a malformed id, got %d", gateway.saveCalls)
		}
	})
}
