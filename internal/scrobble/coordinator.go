package scrobble

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/anisync/internal/anilist"
	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/shared"
)

// DefaultRequestTimeout bounds each remote call so a slow AniList response
// cannot stall a notification indefinitely.
const DefaultRequestTimeout = 10 * time.Second

// Gateway is the remote list-tracking service surface the coordinator needs.
// Implemented by [anilist.Client].
type Gateway interface {
	// ListEntry fetches the user's entry for a media id; nil means the
	// title is not on the user's list.
	ListEntry(ctx context.Context, token string, mediaID int) (*anilist.ListEntry, error)

	// EpisodeCount fetches the total episode count; nil means unknown.
	EpisodeCount(ctx context.Context, mediaID int) (*int, error)

	// SaveListEntry creates or updates an entry, merging unset fields.
	SaveListEntry(ctx context.Context, token string, input anilist.SaveEntryInput) (*anilist.ListEntry, error)
}

// AccountSource resolves per-user sync policy and credentials.
type AccountSource interface {
	// Policy returns the user's sync policy, or nil when the user has no
	// account configured.
	Policy(userID string) (*models.SyncPolicy, error)

	// AccessToken returns the user's stored AniList token; empty when the
	// user is not logged in.
	AccessToken(userID string) (string, error)
}

// Recorder persists successfully pushed updates for the history views.
type Recorder interface {
	RecordScrobble(rec *models.ScrobbleRecord) error
}

// Coordinator orchestrates reconciliation for each incoming playback
// notification. Notifications from different sessions may be handled
// concurrently.
type Coordinator struct {
	gateway  Gateway
	accounts AccountSource
	gate     *Gate
	ledger   *Ledger
	recorder Recorder
	logger   *log.Logger
	timeout  time.Duration
}

// CoordinatorOpts contains configuration options for creating a Coordinator.
type CoordinatorOpts struct {
	Gateway  Gateway
	Accounts AccountSource
	Gate     *Gate
	Ledger   *Ledger
	Recorder Recorder // optional; nil disables history recording
	Logger   *log.Logger
	Timeout  time.Duration // per remote call; defaults to DefaultRequestTimeout
}

// NewCoordinator creates a Coordinator with the provided dependencies.
func NewCoordinator(opts CoordinatorOpts) *Coordinator {
	if opts.Gate == nil {
		opts.Gate = NewGate(0)
	}
	if opts.Ledger == nil {
		opts.Ledger = NewLedger()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}

	return &Coordinator{
		gateway:  opts.Gateway,
		accounts: opts.Accounts,
		gate:     opts.Gate,
		ledger:   opts.Ledger,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
	}
}

// Ledger exposes the dedup ledger, mainly so session-ended signals can evict
// entries.
func (c *Coordinator) Ledger() *Ledger { return c.ledger }

// HandleProgress processes a periodic playback progress notification.
func (c *Coordinator) HandleProgress(ctx context.Context, ev models.PlaybackEvent) {
	c.process(ctx, ev, false)
}

// HandleStop processes the final notification when playback ends.
// Stop notifications bypass the debounce gate.
func (c *Coordinator) HandleStop(ctx context.Context, ev models.PlaybackEvent) {
	c.process(ctx, ev, true)
}

func (c *Coordinator) process(ctx context.Context, ev models.PlaybackEvent, stopped bool) {
	logger := shared.WithLogger(c.logger, "session", ev.SessionID, "item", ev.ItemID, "user", ev.UserID)

	policy, err := c.accounts.Policy(ev.UserID)
	if err != nil || policy == nil {
		logger.Debug("no sync policy for user, skipping")
		return
	}

	token, err := c.accounts.AccessToken(ev.UserID)
	if err != nil || token == "" {
		logger.Debug("user not logged in to AniList, skipping")
		return
	}

	if !Eligible(*policy, ev) {
		return
	}

	if !stopped && !c.gate.ShouldRun(time.Now()) {
		return
	}

	if c.ledger.Suppressed(ev.SessionID, ev.ItemID) {
		logger.Debug("already scrobbled", "name", ev.ItemName)
		return
	}

	if ev.AniListID == "" {
		logger.Debug("no AniList id on item, skipping", "name", ev.ItemName)
		return
	}
	mediaID, err := strconv.Atoi(ev.AniListID)
	if err != nil {
		logger.Warn("malformed AniList id on item", "id", ev.AniListID)
		return
	}
	logger = shared.WithLogger(logger, "media", mediaID)

	// The remote entry is fetched fresh on every attempt; it can change
	// outside this process between notifications.
	entry, err := c.fetchEntry(ctx, token, mediaID)
	if err != nil {
		c.fail(logger, ev, "failed to fetch list entry", err)
		return
	}

	total, err := c.fetchEpisodeCount(ctx, mediaID)
	if err != nil {
		c.fail(logger, ev, "failed to fetch episode count", err)
		return
	}

	decision := Decide(entry, ev.EpisodeIndex(), total, policy.ScrobbleRewatches)
	if !decision.Update {
		logger.Debug("nothing to push", "reason", decision.Reason)
		if stopped {
			// Playback ended: record anyway so teardown notifications for
			// this item are not reprocessed.
			c.ledger.Record(ev.SessionID, ev.ItemID)
		}
		return
	}

	input := anilist.SaveEntryInput{
		Progress: decision.Progress,
		Status:   decision.Status,
		Repeat:   decision.Repeat,
	}
	if entry != nil && entry.ID != nil {
		input.EntryID = entry.ID
	} else {
		input.MediaID = &mediaID
	}

	saved, err := c.push(ctx, token, input)
	if err != nil {
		// Not recorded: the next eligible notification re-derives the
		// decision from fresh remote state and retries.
		c.fail(logger, ev, "failed to push list update", err)
		return
	}

	c.ledger.Record(ev.SessionID, ev.ItemID)
	c.record(logger, ev, mediaID, saved)
	logger.Info("scrobbled", "name", ev.ItemName, "progress", saved.Progress, "status", saved.Status)
}

func (c *Coordinator) fetchEntry(ctx context.Context, token string, mediaID int) (*anilist.ListEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.gateway.ListEntry(ctx, token, mediaID)
}

func (c *Coordinator) fetchEpisodeCount(ctx context.Context, mediaID int) (*int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.gateway.EpisodeCount(ctx, mediaID)
}

func (c *Coordinator) push(ctx context.Context, token string, input anilist.SaveEntryInput) (*anilist.ListEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.gateway.SaveListEntry(ctx, token, input)
}

// fail logs a terminal error for this notification. All errors are terminal
// for the single notification only; nothing is surfaced to the user.
func (c *Coordinator) fail(logger *log.Logger, ev models.PlaybackEvent, msg string, err error) {
	if reqErr, ok := anilist.AsRequestError(err); ok {
		logger.Error(msg, "err", reqErr, "status", reqErr.Status())
	} else {
		logger.Error(msg, "err", err)
	}

	if errors.Is(err, shared.ErrMalformedResponse) {
		// The service cannot produce a usable response for this item;
		// recording the ledger stops the retry loop.
		c.ledger.Record(ev.SessionID, ev.ItemID)
	}
}

func (c *Coordinator) record(logger *log.Logger, ev models.PlaybackEvent, mediaID int, saved *anilist.ListEntry) {
	if c.recorder == nil {
		return
	}

	rec := models.NewScrobbleRecord(0, ev.UserID, mediaID, ev.ItemName, saved.Progress, string(saved.Status), saved.Repeat)
	if err := c.recorder.RecordScrobble(rec); err != nil {
		logger.Warn("failed to record scrobble history", "err", err)
	}
}
