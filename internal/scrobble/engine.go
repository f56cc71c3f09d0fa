package scrobble

import "github.com/desertthunder/anisync/internal/anilist"

// Decision is the outcome of reconciling local progress against a remote
// list entry: either a no-op or a target mutation to push.
type Decision struct {
	Update   bool
	Status   *anilist.MediaListStatus
	Progress *int
	Repeat   *int   // set only when the rewatch counter should change
	Reason   string // explanation for no-op decisions, used in logs
}

func noop(reason string) Decision {
	return Decision{Reason: reason}
}

// Decide computes the target remote state for a playback event.
//
// entry is the current remote list entry; nil means the title is not on the
// user's list yet. totalEpisodes is nil when the episode count is unknown or
// the title is still airing. Pure; no I/O.
func Decide(entry *anilist.ListEntry, localIndex int, totalEpisodes *int, allowRewatch bool) Decision {
	var (
		status   anilist.MediaListStatus
		progress = localIndex
		repeat   *int
	)

	switch {
	case entry == nil:
		// First watch: create the entry.
		status = anilist.StatusCurrent

	case entry.Status == anilist.StatusCompleted:
		if !allowRewatch {
			return noop("rewatch scrobbling disabled")
		}
		if localIndex != 1 {
			return noop("cannot start rewatch mid-series")
		}
		status = anilist.StatusRepeating

	case entry.Status == anilist.StatusRepeating:
		if !allowRewatch {
			return noop("rewatch scrobbling disabled")
		}
		if localIndex <= entry.Progress {
			return noop("already caught up")
		}
		status = anilist.StatusRepeating

	case entry.Status == anilist.StatusPlanning,
		entry.Status == anilist.StatusDropped,
		entry.Status == anilist.StatusPaused:
		// Transition to watching before applying progress.
		status = anilist.StatusCurrent

	default:
		// Current, or an entry with no status set yet.
		if localIndex <= entry.Progress {
			return noop("already caught up")
		}
		status = anilist.StatusCurrent
	}

	// Completion override: watching the last known episode completes the
	// title, and finishing a rewatch pass bumps the rewatch counter.
	if totalEpisodes != nil && localIndex == *totalEpisodes {
		if status == anilist.StatusRepeating {
			next := 1
			if entry != nil {
				next = entry.Repeat + 1
			}
			repeat = &next
		}
		status = anilist.StatusCompleted
	}

	return Decision{Update: true, Status: &status, Progress: &progress, Repeat: repeat}
}
