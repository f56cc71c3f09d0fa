package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/repositories"
	"github.com/desertthunder/anisync/internal/shared"
	"github.com/urfave/cli/v3"
)

// accountView is the serializable projection of [models.Account] for CLI output.
// The access token is deliberately excluded.
type accountView struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Authenticated      bool      `json:"authenticated"`
	ScrobblePercentage int       `json:"scrobble_percentage"`
	MinLengthMinutes   int       `json:"min_length_minutes"`
	ScrobbleMovies     bool      `json:"scrobble_movies"`
	ScrobbleShows      bool      `json:"scrobble_shows"`
	ScrobbleRewatches  bool      `json:"scrobble_rewatches"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func newAccountView(a *models.Account) accountView {
	policy := a.Policy()
	return accountView{
		ID:                 a.ID(),
		UserID:             a.UserID(),
		Authenticated:      a.Authenticated(),
		ScrobblePercentage: policy.ScrobblePercentage,
		MinLengthMinutes:   policy.MinLengthMinutes,
		ScrobbleMovies:     policy.ScrobbleMovies,
		ScrobbleShows:      policy.ScrobbleShows,
		ScrobbleRewatches:  policy.ScrobbleRewatches,
		CreatedAt:          a.CreatedAt(),
		UpdatedAt:          a.UpdatedAt(),
	}
}

// AccountList lists configured accounts.
func (r *Runner) AccountList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	useJSON := cmd.Bool("json")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccountRepository(db)
	accounts, err := repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if useJSON {
		views := make([]accountView, len(accounts))
		for i, account := range accounts {
			views[i] = newAccountView(account)
		}
		return r.writeJSON(views, true)
	}

	if len(accounts) == 0 {
		return r.writePlain("No accounts configured.\n")
	}

	for _, account := range accounts {
		policy := account.Policy()
		auth := "✗ not authenticated"
		if account.Authenticated() {
			auth = "✓ authenticated"
		}
		r.writePlain("%s  %s\n", account.UserID(), auth)
		r.writePlain("  threshold %d%%, min length %dm, movies=%t shows=%t rewatches=%t\n",
			policy.ScrobblePercentage, policy.MinLengthMinutes,
			policy.ScrobbleMovies, policy.ScrobbleShows, policy.ScrobbleRewatches)
	}

	return nil
}

// AccountSet creates or updates an account's sync policy.
func (r *Runner) AccountSet(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccountRepository(db)
	account, err := repo.GetByUserID(userID)

	created := false
	switch {
	case errors.Is(err, shared.ErrAccountNotFound):
		defaults := config.Scrobble.Defaults
		account = models.NewAccount(0, userID, "", models.SyncPolicy{
			ScrobblePercentage: defaults.ScrobblePercentage,
			MinLengthMinutes:   defaults.MinLengthMinutes,
			ScrobbleMovies:     defaults.ScrobbleMovies,
			ScrobbleShows:      defaults.ScrobbleShows,
			ScrobbleRewatches:  defaults.ScrobbleRewatches,
		})
		created = true
	case err != nil:
		return fmt.Errorf("failed to look up account: %w", err)
	}

	policy := account.Policy()
	if err := applyPolicyFlags(cmd, &policy); err != nil {
		return err
	}
	account.SetPolicy(policy)

	if created {
		if err := repo.Create(account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		r.writePlain("✓ Account created for user %s\n", userID)
	} else {
		if err := repo.Update(account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		r.writePlain("✓ Account updated for user %s\n", userID)
	}

	r.writePlain("  threshold %d%%, min length %dm, movies=%t shows=%t rewatches=%t\n",
		policy.ScrobblePercentage, policy.MinLengthMinutes,
		policy.ScrobbleMovies, policy.ScrobbleShows, policy.ScrobbleRewatches)

	return nil
}

// AccountDelete soft-deletes an account by media server user id.
func (r *Runner) AccountDelete(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccountRepository(db)
	account, err := repo.GetByUserID(userID)
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if err := repo.Delete(account.ID()); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return r.writePlain("✓ Account deleted for user %s\n", userID)
}

// applyPolicyFlags overlays set CLI flags onto an existing policy.
// Integer flags use -1 as the unset sentinel; boolean flags are tri-state
// strings so an absent flag leaves the stored value alone.
func applyPolicyFlags(cmd *cli.Command, policy *models.SyncPolicy) error {
	if pct := cmd.Int("percentage"); pct >= 0 {
		policy.ScrobblePercentage = pct
	}
	if minLength := cmd.Int("min-length"); minLength >= 0 {
		policy.MinLengthMinutes = minLength
	}

	for flag, dest := range map[string]*bool{
		"movies":    &policy.ScrobbleMovies,
		"shows":     &policy.ScrobbleShows,
		"rewatches": &policy.ScrobbleRewatches,
	} {
		raw := cmd.String(flag)
		if raw == "" {
			continue
		}
		val, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: --%s must be true or false", shared.ErrInvalidFlag, flag)
		}
		*dest = val
	}

	return nil
}
