// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a scrobble-history browser: it lists the updates the daemon has
// pushed to AniList, newest first, with a detail line per entry (episode
// progress, watch status, rewatch count).
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. History records load asynchronously from the repository via the
// [HistorySource] interface and refresh on demand.
//
// Keyboard navigation uses vim-style bindings (j/k, r, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
