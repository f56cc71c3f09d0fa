package scrobble

import "testing"

func TestLedger(t *testing.T) {
	t.Run("fresh session is not suppressed", func(t *testing.T) {
		l := NewLedger()
		if l.Suppressed("s1", "item-a") {
			t.Error("nothing recorded yet, nothing should be suppressed")
		}
	})

	t.Run("recorded item is suppressed", func(t *testing.T) {
		l := NewLedger()
		l.Record("s1", "item-a")

		if !l.Suppressed("s1", "item-a") {
			t.Error("recorded item should be suppressed")
		}
		if l.Suppressed("s2", "item-a") {
			t.Error("suppression is scoped per session")
		}
	})

	t.Run("new item resets the session", func(t *testing.T) {
		l := NewLedger()
		l.Record("s1", "item-a")
		l.Record("s1", "item-b")

		if l.Suppressed("s1", "item-a") {
			t.Error("moving to a new item should clear the old suppression")
		}
		if !l.Suppressed("s1", "item-b") {
			t.Error("the new item should be suppressed")
		}
		if l.Len() != 1 {
			t.Errorf("a session holds a single entry, got %d", l.Len())
		}
	})

	t.Run("forget evicts the session", func(t *testing.T) {
		l := NewLedger()
		l.Record("s1", "item-a")
		l.Forget("s1")

		if l.Suppressed("s1", "item-a") {
			t.Error("forgotten session should not suppress anything")
		}
		if l.Len() != 0 {
			t.Errorf("expected empty ledger, got %d entries", l.Len())
		}
	})
}
