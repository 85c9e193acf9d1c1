// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP and WebSocket handlers for the
Thing of the Day API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - SessionHandler: Username claims and player tokens
  - GameHandler: The view's WebSocket message channel
  - ArchiveHandler: REST reads over today and the archive, plus the
    admin re-run endpoint

Handlers are created via constructor functions:

	gameHandler := handlers.NewGameHandler(g, store)

# Session Flow

A player claims a username once and holds the returned token:

	POST /session → ClaimSession (returns player_token)

The token travels as the token query parameter on the WebSocket
connect and as the X-Player-Token header on REST reads. Requests
without a token act as the shared anonymous user.

# View Message Channel

The embedded view speaks a typed message protocol over a WebSocket:

	GET /game/connect?token=... → Connect

Each inbound message gets exactly one reply: webViewReady →
initialData, createCard → cardCreated, cardVote → voteRegistered,
fetchTopPost → topPostData, fetchMonthlyTopPosts →
monthlyTopPostsData. Malformed and unknown messages get the error
type.

# Archive Reads

	GET /today                     → GetToday
	GET /archive/top-post?date=... → GetTopPost
	GET /archive/{year}/{month}    → GetMonthlyTopPosts
	POST /admin/archive/run        → RunArchive

Admin operations require the X-Admin-Key header.
*/
package handlers
