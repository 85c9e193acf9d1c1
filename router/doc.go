// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Thing of the Day API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Session management:

	POST /session - Claim a username, returns player_token

View message channel:

	GET /game/connect - WebSocket upgrade, token query parameter

Today and the archive (public, X-Player-Token optional):

	GET /today                     - Caller's snapshot of today
	GET /archive/top-post?date=... - One day's archived top post
	GET /archive/{year}/{month}    - A month's archived top posts

Admin (requires X-Admin-Key):

	POST /admin/archive/run - Re-run the archive job for a day

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(store)
	gameHandler := handlers.NewGameHandler(g, store)
	archiveHandler := handlers.NewArchiveHandler(g, archiver, store, cfg)

All handlers receive the key-value store; the archive handler also
takes the configuration for admin key checks.
*/
package router
