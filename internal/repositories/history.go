package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/shared"
)

// ScrobbleHistoryRepository persists [models.ScrobbleRecord] entries.
// History records are append-only; there is no update or delete path.
type ScrobbleHistoryRepository struct {
	db *sql.DB
}

// NewScrobbleHistoryRepository creates a new [ScrobbleHistoryRepository] with the given database connection
func NewScrobbleHistoryRepository(db *sql.DB) *ScrobbleHistoryRepository {
	return &ScrobbleHistoryRepository{db: db}
}

// Create inserts a new scrobble record with generated ID and sequence
func (r *ScrobbleHistoryRepository) Create(rec *models.ScrobbleRecord) error {
	sequence, err := NextSequence(r.db, "scrobbles")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	rec.SetID(id)
	rec.SetSequence(sequence)

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO scrobbles (id, sequence, user_id, media_id, item_name, progress, status, times_rewatched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, rec.UserID(), rec.MediaID(), rec.ItemName(),
		rec.Progress(), rec.Status(), rec.TimesRewatched(), rec.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert scrobble record: %w", err)
	}

	return nil
}

// Recent retrieves the most recent scrobble records, newest first.
// A userID filter is applied when non-empty; limit <= 0 defaults to 50.
func (r *ScrobbleHistoryRepository) Recent(userID string, limit int) ([]*models.ScrobbleRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, sequence, user_id, media_id, item_name, progress, status, times_rewatched, created_at
		FROM scrobbles
	`
	args := []any{}

	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scrobbles: %w", err)
	}
	defer rows.Close()

	var records []*models.ScrobbleRecord
	for rows.Next() {
		var (
			id             string
			sequence       int
			recUserID      string
			mediaID        int
			itemName       string
			progress       int
			status         string
			timesRewatched int
			createdAt      time.Time
		)

		err := rows.Scan(&id, &sequence, &recUserID, &mediaID, &itemName, &progress, &status, &timesRewatched, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scrobble record: %w", err)
		}

		rec := models.NewScrobbleRecord(sequence, recUserID, mediaID, itemName, progress, status, timesRewatched)
		rec.SetID(id)
		rec.SetCreatedAt(createdAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// RecordScrobble implements scrobble.Recorder over Create.
func (r *ScrobbleHistoryRepository) RecordScrobble(rec *models.ScrobbleRecord) error {
	return r.Create(rec)
}
