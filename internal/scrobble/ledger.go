package scrobble

import "sync"

// Ledger remembers, per playback session, the item that was last successfully
// reconciled, so repeated notifications for the same item do no redundant
// work. Entries are overwritten when the session moves to a new item and are
// never explicitly deleted; growth is bounded by the number of live sessions.
//
// Safe for concurrent use.
type Ledger struct {
	mu   sync.Mutex
	last map[string]string // session id -> item id
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{last: make(map[string]string)}
}

// Suppressed reports whether itemID was already the last reconciled item for
// the session.
func (l *Ledger) Suppressed(sessionID, itemID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last[sessionID] == itemID
}

// Record marks itemID as the last reconciled item for the session.
func (l *Ledger) Record(sessionID, itemID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[sessionID] = itemID
}

// Forget drops the session's entry. Called when the host reports a session
// as ended to bound growth.
func (l *Ledger) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, sessionID)
}

// Len returns the number of tracked sessions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
