package models

import "fmt"

// MediaKind discriminates movies from series episodes in playback notifications.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindEpisode MediaKind = "episode"
)

// PlaybackEvent is a single playback progress or stop notification emitted by
// the media server. Events are transient: created per notification, consumed once.
type PlaybackEvent struct {
	SessionID     string    // Playback session identifier
	UserID        string    // Media server user identifier
	ItemID        string    // Media server library item identifier
	ItemName      string    // Display name, used only for logging
	Kind          MediaKind // movie or episode
	IndexNumber   *int      // Episode number within the series; nil for movies
	PositionTicks int64     // Current playback position in ticks
	RuntimeTicks  *int64    // Total runtime in ticks; nil when unknown
	AniListID     string    // AniList media identifier from item provider ids; empty when unmapped
}

// EpisodeIndex returns the local episode index used for reconciliation.
// Movies and items without an index number count as a single episode.
func (e PlaybackEvent) EpisodeIndex() int {
	if e.IndexNumber == nil {
		return 1
	}
	return *e.IndexNumber
}

// SyncPolicy holds a user's scrobbling thresholds and allow flags.
// Owned by the account store; read-only to the reconciliation core.
type SyncPolicy struct {
	ScrobblePercentage int  // Minimum percentage watched before a scrobble is attempted (0-100)
	MinLengthMinutes   int  // Titles shorter than this are never scrobbled
	ScrobbleMovies     bool // Allow scrobbling movies
	ScrobbleShows      bool // Allow scrobbling series episodes
	ScrobbleRewatches  bool // Allow starting and continuing rewatches
}

// Validate checks that the policy's thresholds are in range.
func (p SyncPolicy) Validate() error {
	if p.ScrobblePercentage < 0 || p.ScrobblePercentage > 100 {
		return fmt.Errorf("scrobble percentage must be between 0 and 100, got %d", p.ScrobblePercentage)
	}
	if p.MinLengthMinutes < 0 {
		return fmt.Errorf("minimum length must not be negative, got %d", p.MinLengthMinutes)
	}
	return nil
}
