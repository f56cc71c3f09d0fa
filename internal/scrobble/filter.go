package scrobble

import "github.com/desertthunder/anisync/internal/models"

// ticksPerMinute is the minimum-length threshold scale. Positions and
// runtimes arrive in server ticks; the minimum length is configured in
// minutes.
const ticksPerMinute = 60 * 10_000

// Eligible reports whether a playback notification is substantial enough to
// act on. Pure; no I/O.
//
// When the runtime is unknown the percentage and minimum-length checks are
// skipped, but the media kind must still be allowed by the policy.
func Eligible(policy models.SyncPolicy, ev models.PlaybackEvent) bool {
	if ev.RuntimeTicks != nil {
		runtime := *ev.RuntimeTicks

		if runtime > 0 {
			watched := float64(ev.PositionTicks) / float64(runtime) * 100
			if watched < float64(policy.ScrobblePercentage) {
				return false
			}
		}

		// Titles shorter than the configured minimum length are never
		// scrobbled, independent of percentage watched.
		if runtime < int64(policy.MinLengthMinutes)*ticksPerMinute {
			return false
		}
	}

	switch ev.Kind {
	case models.KindMovie:
		return policy.ScrobbleMovies
	case models.KindEpisode:
		return policy.ScrobbleShows
	default:
		return false
	}
}
