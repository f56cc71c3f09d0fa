package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/anisync/internal/models"
	"github.com/desertthunder/anisync/internal/repositories"
	"github.com/desertthunder/anisync/internal/shared"
	"github.com/desertthunder/anisync/internal/ui"
	"github.com/urfave/cli/v3"
)

// scrobbleView is the serializable projection of [models.ScrobbleRecord] for CLI output.
type scrobbleView struct {
	UserID         string    `json:"user_id"`
	MediaID        int       `json:"media_id"`
	ItemName       string    `json:"item_name"`
	Progress       int       `json:"progress"`
	Status         string    `json:"status"`
	TimesRewatched int       `json:"times_rewatched"`
	CreatedAt      time.Time `json:"created_at"`
}

func newScrobbleView(rec *models.ScrobbleRecord) scrobbleView {
	return scrobbleView{
		UserID:         rec.UserID(),
		MediaID:        rec.MediaID(),
		ItemName:       rec.ItemName(),
		Progress:       rec.Progress(),
		Status:         rec.Status(),
		TimesRewatched: rec.TimesRewatched(),
		CreatedAt:      rec.CreatedAt(),
	}
}

// HistoryList prints recent scrobbles, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewScrobbleHistoryRepository(db)
	records, err := repo.Recent(userID, limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if useJSON {
		views := make([]scrobbleView, len(records))
		for i, rec := range records {
			views[i] = newScrobbleView(rec)
		}
		return r.writeJSON(views, true)
	}

	if len(records) == 0 {
		return r.writePlain("Nothing scrobbled yet.\n")
	}

	for _, rec := range records {
		name := rec.ItemName()
		if name == "" {
			name = fmt.Sprintf("AniList #%d", rec.MediaID())
		}
		r.writePlain("%s  %s  ep %d  %s", rec.CreatedAt().Format("2006-01-02 15:04"), name, rec.Progress(), rec.Status())
		if rec.TimesRewatched() > 0 {
			r.writePlain("  rewatch ×%d", rec.TimesRewatched())
		}
		r.writePlain("\n")
	}

	return nil
}

// HistoryUI launches the interactive scrobble history browser.
func (r *Runner) HistoryUI(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")
	limit := cmd.Int("limit")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/anisync-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	repo := repositories.NewScrobbleHistoryRepository(db)
	model := ui.NewModel(repo, userID, limit)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
