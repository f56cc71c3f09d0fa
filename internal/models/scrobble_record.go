package models

import (
	"fmt"
	"time"
)

// ScrobbleRecord is one successfully pushed list update, kept for the history
// views and for diagnosing reconciliation behavior. Implements [Model].
type ScrobbleRecord struct {
	id             string
	sequence       int
	userID         string
	mediaID        int
	itemName       string
	progress       int
	status         string
	timesRewatched int
	createdAt      time.Time
}

// NewScrobbleRecord creates a ScrobbleRecord for a pushed update.
func NewScrobbleRecord(sequence int, userID string, mediaID int, itemName string, progress int, status string, timesRewatched int) *ScrobbleRecord {
	return &ScrobbleRecord{
		sequence:       sequence,
		userID:         userID,
		mediaID:        mediaID,
		itemName:       itemName,
		progress:       progress,
		status:         status,
		timesRewatched: timesRewatched,
		createdAt:      time.Now(),
	}
}

func (s *ScrobbleRecord) ID() string           { return s.id }
func (s *ScrobbleRecord) Sequence() int        { return s.sequence }
func (s *ScrobbleRecord) UserID() string       { return s.userID }
func (s *ScrobbleRecord) MediaID() int         { return s.mediaID }
func (s *ScrobbleRecord) ItemName() string     { return s.itemName }
func (s *ScrobbleRecord) Progress() int        { return s.progress }
func (s *ScrobbleRecord) Status() string       { return s.status }
func (s *ScrobbleRecord) TimesRewatched() int  { return s.timesRewatched }
func (s *ScrobbleRecord) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the creation time; history records are immutable.
func (s *ScrobbleRecord) UpdatedAt() time.Time { return s.createdAt }

func (s *ScrobbleRecord) SetID(id string)          { s.id = id }
func (s *ScrobbleRecord) SetSequence(sequence int) { s.sequence = sequence }
func (s *ScrobbleRecord) SetCreatedAt(t time.Time) { s.createdAt = t }

// Validate checks that the record's data is valid.
func (s *ScrobbleRecord) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("scrobble record user id must not be empty")
	}
	if s.mediaID <= 0 {
		return fmt.Errorf("scrobble record media id must be positive, got %d", s.mediaID)
	}
	if s.progress < 0 {
		return fmt.Errorf("scrobble record progress must not be negative, got %d", s.progress)
	}
	return nil
}
