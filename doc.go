// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Thing of the Day server.

Thing of the Day is a daily card game: each user may submit one short
text card per day and cast one vote per day on another card. At
midnight UTC the day's top-voted card is archived, and a monthly
calendar view shows each day's winner.

# Starting the Server

The server reads environment variables (optionally from a .env file)
or CLI flags:

	DATABASE_URL=things.db ADMIN_KEY_SALT=secret go run .

Or with flags:

	go run . -p 3324 -d things.db --admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3324)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - --no-scheduler: Disable the midnight archive job

# Architecture

The server uses a handler-based architecture with dependency injection:

  - kv: Key-value store over SQL (string keys and hashes)
  - dayrecord: Day record encoding and date key helpers
  - game: Daily rules (one card, one vote per user per UTC day)
  - jobs: Midnight archive job and its cron scheduler
  - handlers: HTTP and WebSocket handlers (session, game, archive)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Message and request/response types
  - auth: Admin keys and player tokens
*/
package main
