// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
//
// Repositories:
//   - [AccountRepository] : per-user AniList tokens and sync policies, soft-deleted
//   - [ScrobbleHistoryRepository] : append-only log of pushed list updates
//
// [AccountSourceAdapter] bridges the account store to the scrobble
// coordinator's read-only view (policy + token by media server user id).
package repositories
