// Package models defines domain entities and persistence interfaces for the anisync scrobble daemon.
//
// The package contains two categories of types:
//
// 1. Transient values created per playback notification:
//   - [PlaybackEvent] : One progress or stop notification from the media server
//   - [MediaKind] : Movie/episode discriminator used by the eligibility filter
//   - [SyncPolicy] : A user's scrobbling thresholds and allow flags
//
// 2. Persistent entities backed by SQLite:
//   - [Account] : Links a media server user to an AniList token and policy
//   - [ScrobbleRecord] : One successfully pushed list update, kept for history
//
// Persistent entities implement the Model interface providing ID generation,
// timestamps, validation, and soft delete support. The Repository[T] interface
// defines standard CRUD operations for database access.
package models
