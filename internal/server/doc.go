// Package server provides HTTP routing, middleware, webhook ingestion, and OAuth handling.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Playback Webhook
//
// [PlaybackHandler] receives playback progress and stop notifications from the
// media server, maps them to playback events, and dispatches each to the
// scrobble coordinator on its own goroutine. The handler acknowledges with
// 202 immediately; reconciliation outcomes are logged, never returned.
//
// SessionEnded notifications evict the session from the dedup ledger instead
// of dispatching.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks. When the user
// runs `anisync auth login`, a temporary HTTP server starts on the configured
// address, handles the callback, and shuts down after receiving the token.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
