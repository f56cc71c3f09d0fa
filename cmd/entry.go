package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/anisync/internal/repositories"
	"github.com/desertthunder/anisync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Entry fetches a media's list entry and episode count from AniList.
//
// Primarily a debugging aid: it shows exactly the remote state the
// reconciliation engine would base its next decision on.
func (r *Runner) Entry(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	userID := cmd.String("user")

	mediaID, err := strconv.Atoi(cmd.StringArg("media-id"))
	if err != nil || mediaID <= 0 {
		return fmt.Errorf("%w: a positive AniList media id is required", shared.ErrMissingArgument)
	}

	token := ""
	if userID != "" {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		account, err := repositories.NewAccountRepository(db).GetByUserID(userID)
		if err != nil {
			return fmt.Errorf("failed to look up account: %w", err)
		}
		token = account.AccessToken()
	}

	episodes, err := r.client.EpisodeCount(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("failed to fetch episode count: %w", err)
	}

	result := map[string]any{"media_id": mediaID}
	if episodes != nil {
		result["episodes"] = *episodes
	}

	if token != "" {
		entry, err := r.client.ListEntry(ctx, token, mediaID)
		if err != nil {
			return fmt.Errorf("failed to fetch list entry: %w", err)
		}
		result["entry"] = entry
	}

	return r.writeJSON(result, true)
}
