// Package scrobble implements the reconciliation engine that keeps a user's
// AniList entries in step with local playback.
//
// The flow per notification is: eligibility filter → debounce gate → dedup
// ledger → fetch remote state → decide → push update → record ledger. The
// decision logic ([Decide]) is a pure function over the remote entry, local
// episode index, total episode count, and the user's rewatch policy, which
// keeps it independently table-testable.
//
// The [Coordinator] owns the orchestration and error handling. Notifications
// from different playback sessions may be processed concurrently; the gate
// and ledger are the only shared mutable state and are internally
// synchronized.
package scrobble
