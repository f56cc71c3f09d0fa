package repositories

import (
	"errors"

	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/shared"
)

// AccountSourceAdapter implements scrobble.AccountSource using AccountRepository.
//
// A missing account is reported as (nil, nil) / ("", nil) rather than an
// error: the coordinator treats unconfigured users as a silent skip.
type AccountSourceAdapter struct {
	repo *AccountRepository
}

// NewAccountSourceAdapter creates a new AccountSourceAdapter with the given repository
func NewAccountSourceAdapter(repo *AccountRepository) *AccountSourceAdapter {
	return &AccountSourceAdapter{repo: repo}
}

// Policy returns the sync policy for a media server user, or nil when no
// account exists.
func (a *AccountSourceAdapter) Policy(userID string) (*models.SyncPolicy, error) {
	account, err := a.repo.GetByUserID(userID)
	if errors.Is(err, shared.ErrAccountNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	policy := account.Policy()
	return &policy, nil
}

// AccessToken returns the user's stored AniList token, or "" when the user
// has no account or has not logged in.
func (a *AccountSourceAdapter) AccessToken(userID string) (string, error) {
	account, err := a.repo.GetByUserID(userID)
	if errors.Is(err, shared.ErrAccountNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return account.AccessToken(), nil
}
