package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/repositories"
	"github.com/desertthunder/anisync/internal/server"
	"github.com/desertthunder/anisync/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization code flow for AniList.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// stores the resulting token on the account bound to the given media server
// user.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")

	creds := config.Credentials.AniList
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: AniList client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(config)
	if err != nil {
		return err
	}

	viewer, err := r.client.Viewer(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to verify token: %w", err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccountRepository(db)
	account, err := repo.GetByUserID(userID)
	switch {
	case errors.Is(err, shared.ErrAccountNotFound):
		defaults := config.Scrobble.Defaults
		account = models.NewAccount(0, userID, token.AccessToken, models.SyncPolicy{
			ScrobblePercentage: defaults.ScrobblePercentage,
			MinLengthMinutes:   defaults.MinLengthMinutes,
			ScrobbleMovies:     defaults.ScrobbleMovies,
			ScrobbleShows:      defaults.ScrobbleShows,
			ScrobbleRewatches:  defaults.ScrobbleRewatches,
		})
		if err := repo.Create(account); err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up account: %w", err)
	default:
		account.SetAccessToken(token.AccessToken)
		if err := repo.Update(account); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Logged in to AniList as %s (id %d)\n", viewer.Name, viewer.ID)
	r.writePlain("✓ Token stored for media server user %s\n", userID)

	return nil
}

// AuthStatus checks stored tokens against the AniList API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewAccountRepository(db)
	accounts, err := repo.List(map[string]any{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		return r.writePlain("No accounts configured. Run 'anisync auth login --user <id>' first.\n")
	}

	for _, account := range accounts {
		if !account.Authenticated() {
			r.writePlain("✗ %s: no token stored\n", account.UserID())
			continue
		}

		viewer, err := r.client.Viewer(ctx, account.AccessToken())
		if err != nil {
			r.writePlain("✗ %s: token rejected (%v)\n", account.UserID(), err)
			continue
		}
		r.writePlain("✓ %s: authenticated as %s\n", account.UserID(), viewer.Name)
	}

	return nil
}

// doOAuth runs the local callback server and browser round trip, returning
// the exchanged token.
func (r *Runner) doOAuth(config *shared.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.client.AuthCodeURL(state)
	oauthHandler := server.NewOAuthHandler(r.client.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for AniList authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrAuthFailed)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
