package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/anisync/internal/models"
)

var _ list.Item = scrobbleItem{}

// scrobbleItem wraps [models.ScrobbleRecord] to implement [list.Item].
type scrobbleItem struct {
	record *models.ScrobbleRecord
}

func (i scrobbleItem) FilterValue() string { return i.record.ItemName() }

func (i scrobbleItem) Title() string {
	name := i.record.ItemName()
	if name == "" {
		name = fmt.Sprintf("AniList #%d", i.record.MediaID())
	}
	return name
}

func (i scrobbleItem) Description() string {
	desc := fmt.Sprintf("ep %d • %s", i.record.Progress(), i.record.Status())
	if i.record.TimesRewatched() > 0 {
		desc = fmt.Sprintf("%s • rewatch ×%d", desc, i.record.TimesRewatched())
	}
	return fmt.Sprintf("%s • %s", desc, i.record.CreatedAt().Format("2006-01-02 15:04"))
}
