// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connection and schema creation.

# Opening a Connection

Open selects the driver from the configuration:

	conn, err := db.Open(cfg)

DATABASE_TYPE=sqlite uses modernc.org/sqlite (pure Go, default),
DATABASE_TYPE=postgres uses lib/pq.

# Schema Creation

CreateSchema initializes the key-value tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes, and only portable SQL so the same statements run on both
drivers.

# Tables

The schema is a key-value layout rather than relational tables,
mirroring the storage contract of the game:

  - kv_string: one string value per key (day records, YYYY-MM-DD)
  - kv_hash: field/value pairs per key (user state, monthly archive,
    player sessions)

# Key Layout

	YYYY-MM-DD  → encoded day record string
	user:<name> → lastPostDate, lastCreatedPost, lastVoteDate, lastVotedPost
	YYYY-MM     → DD → JSON top post record
	players     → <token> → username
	usernames   → <username> → token
*/
package db
