package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/anisync/internal/repositories"
	"github.com/desertthunder/anisync/internal/scrobble"
	"github.com/desertthunder/anisync/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the playback webhook listener until interrupted.
//
// Wires the full notification path: HTTP webhook handler, per-user account
// lookup, the reconciliation coordinator, and the scrobble history log.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	accountRepo := repositories.NewAccountRepository(db)
	historyRepo := repositories.NewScrobbleHistoryRepository(db)

	coordinator := scrobble.NewCoordinator(scrobble.CoordinatorOpts{
		Gateway:  r.client,
		Accounts: repositories.NewAccountSourceAdapter(accountRepo),
		Gate:     scrobble.NewGate(config.Scrobble.DebounceInterval()),
		Recorder: historyRepo,
		Logger:   r.logger,
		Timeout:  config.Scrobble.RequestTimeout(),
	})

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewPlaybackHandler(coordinator, coordinator.Ledger(), r.logger))
	router.Handler(&server.HealthHandler{})

	addr := cmd.String("addr")
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("listening for playback webhooks at %v", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		r.logger.Info("shutting down", "signal", sig)
	case <-ctx.Done():
		r.logger.Info("shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
