package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/shared"
)

// AccountRepository implements [models.Repository] for [models.Account] persistence.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new [AccountRepository] with the given database connection
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, sequence, user_id, access_token,
	scrobble_percentage, min_length_minutes, scrobble_movies, scrobble_shows, scrobble_rewatches,
	created_at, updated_at, deleted_at`

// Create inserts a new account into the database with generated ID and sequence
func (r *AccountRepository) Create(account *models.Account) error {
	sequence, err := NextSequence(r.db, "accounts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	account.SetID(id)
	account.SetSequence(sequence)

	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	policy := account.Policy()
	query := `
		INSERT INTO accounts (id, sequence, user_id, access_token,
			scrobble_percentage, min_length_minutes, scrobble_movies, scrobble_shows, scrobble_rewatches,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, account.UserID(), account.AccessToken(),
		policy.ScrobblePercentage, policy.MinLengthMinutes,
		policy.ScrobbleMovies, policy.ScrobbleShows, policy.ScrobbleRewatches,
		account.CreatedAt(), account.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// Get retrieves an account by ID, excluding soft-deleted accounts
func (r *AccountRepository) Get(id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = ? AND deleted_at IS NULL`, accountColumns)
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByUserID retrieves an account by media server user id, excluding soft-deleted accounts
func (r *AccountRepository) GetByUserID(userID string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE user_id = ? AND deleted_at IS NULL`, accountColumns)
	return r.scanOne(r.db.QueryRow(query, userID))
}

// Update modifies an existing account in the database
func (r *AccountRepository) Update(account *models.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	account.SetUpdatedAt(now)

	policy := account.Policy()
	query := `
		UPDATE accounts
		SET access_token = ?, scrobble_percentage = ?, min_length_minutes = ?,
			scrobble_movies = ?, scrobble_shows = ?, scrobble_rewatches = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, account.AccessToken(),
		policy.ScrobblePercentage, policy.MinLengthMinutes,
		policy.ScrobbleMovies, policy.ScrobbleShows, policy.ScrobbleRewatches,
		now, account.ID())
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account not found or already deleted: %s", account.ID())
	}

	return nil
}

// Delete soft-deletes an account by ID
func (r *AccountRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE accounts
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all accounts matching the given criteria, excluding soft-deleted accounts
func (r *AccountRepository) List(criteria map[string]any) ([]*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE deleted_at IS NULL`, accountColumns)

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return accounts, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func (r *AccountRepository) scanOne(row scanner) (*models.Account, error) {
	var (
		id                 string
		sequence           int
		userID             string
		token              string
		scrobblePercentage int
		minLengthMinutes   int
		scrobbleMovies     bool
		scrobbleShows      bool
		scrobbleRewatches  bool
		createdAt          time.Time
		updatedAt          time.Time
		deletedAt          sql.NullTime
	)

	err := row.Scan(&id, &sequence, &userID, &token,
		&scrobblePercentage, &minLengthMinutes, &scrobbleMovies, &scrobbleShows, &scrobbleRewatches,
		&createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	policy := models.SyncPolicy{
		ScrobblePercentage: scrobblePercentage,
		MinLengthMinutes:   minLengthMinutes,
		ScrobbleMovies:     scrobbleMovies,
		ScrobbleShows:      scrobbleShows,
		ScrobbleRewatches:  scrobbleRewatches,
	}

	account := models.NewAccount(sequence, userID, token, policy)
	account.SetID(id)
	account.SetCreatedAt(createdAt)
	account.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		account.SetDeletedAt(&deletedAt.Time)
	}

	return account, nil
}
