package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/scrobble"
	"github.com/desertthunder/anisync/internal/shared"
)

// Playback event names accepted by the webhook.
const (
	EventProgress     = "PlaybackProgress"
	EventStopped      = "PlaybackStopped"
	EventSessionEnded = "SessionEnded"
)

// anilistProviderKey is the provider-id map key carrying the AniList media id.
const anilistProviderKey = "AniList"

// Dispatcher consumes playback notifications. Implemented by
// [scrobble.Coordinator].
type Dispatcher interface {
	HandleProgress(ctx context.Context, ev models.PlaybackEvent)
	HandleStop(ctx context.Context, ev models.PlaybackEvent)
}

// playbackPayload is the JSON body posted by the media server's webhook.
type playbackPayload struct {
	Event         string            `json:"event"`
	SessionID     string            `json:"session_id"`
	UserID        string            `json:"user_id"`
	ItemID        string            `json:"item_id"`
	ItemName      string            `json:"item_name"`
	ItemType      string            `json:"item_type"`
	IndexNumber   *int              `json:"index_number"`
	PositionTicks int64             `json:"position_ticks"`
	RuntimeTicks  *int64            `json:"runtime_ticks"`
	ProviderIDs   map[string]string `json:"provider_ids"`
}

// PlaybackHandler receives playback notifications over HTTP and hands them
// to the scrobble coordinator. Each accepted notification is processed on
// its own goroutine so concurrent sessions never block each other.
// Implements [Handler].
type PlaybackHandler struct {
	dispatcher Dispatcher
	ledger     *scrobble.Ledger // for SessionEnded eviction; may be nil
	logger     *log.Logger
}

// NewPlaybackHandler creates a PlaybackHandler with the given dispatcher.
func NewPlaybackHandler(dispatcher Dispatcher, ledger *scrobble.Ledger, logger *log.Logger) *PlaybackHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaybackHandler{
		dispatcher: dispatcher,
		ledger:     ledger,
		logger:     logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaybackHandler) Routes() []string {
	return []string{"/webhook/playback"}
}

// ServeHTTP decodes a playback notification and dispatches it.
//
// Responds 202 as soon as the payload is accepted; reconciliation runs
// asynchronously and its errors are logged, never returned to the caller.
func (h *PlaybackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload playbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("rejected webhook payload", "err", err)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if payload.SessionID == "" || payload.UserID == "" {
		http.Error(w, "Missing session or user id", http.StatusBadRequest)
		return
	}

	if payload.Event == EventSessionEnded {
		if h.ledger != nil {
			h.ledger.Forget(payload.SessionID)
		}
		writeAccepted(w)
		return
	}

	ev, ok := payload.toEvent()
	if !ok {
		http.Error(w, "Unsupported item type", http.StatusBadRequest)
		return
	}

	switch payload.Event {
	case EventProgress:
		go h.dispatcher.HandleProgress(context.Background(), ev)
	case EventStopped:
		go h.dispatcher.HandleStop(context.Background(), ev)
	default:
		http.Error(w, "Unsupported event", http.StatusBadRequest)
		return
	}

	writeAccepted(w)
}

// toEvent maps the wire payload to a [models.PlaybackEvent].
func (p playbackPayload) toEvent() (models.PlaybackEvent, bool) {
	var kind models.MediaKind
	switch strings.ToLower(p.ItemType) {
	case "movie":
		kind = models.KindMovie
	case "episode":
		kind = models.KindEpisode
	default:
		return models.PlaybackEvent{}, false
	}

	return models.PlaybackEvent{
		SessionID:     p.SessionID,
		UserID:        p.UserID,
		ItemID:        p.ItemID,
		ItemName:      p.ItemName,
		Kind:          kind,
		IndexNumber:   p.IndexNumber,
		PositionTicks: p.PositionTicks,
		RuntimeTicks:  p.RuntimeTicks,
		AniListID:     p.ProviderIDs[anilistProviderKey],
	}, true
}

func writeAccepted(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

// HealthHandler responds to liveness probes. Implements [Handler].
type HealthHandler struct{}

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
