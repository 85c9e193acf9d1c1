// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package kv provides the key-value storage layer over SQL.

# Operations

String keys (day records):

	value, err := store.Get("2024-01-01")
	err = store.Set("2024-01-01", encoded)

Hash keys (user state, monthly archive, sessions):

	value, err := store.HGet("user:alice", "lastPostDate")
	err = store.HSet("2024-01", "01", payload)
	err = store.HSetAll("user:alice", fields)
	fields, err := store.HGetAll("2024-01")

Absent keys and fields read as "", not as errors.

# Transactions

Update wraps a read-modify-write sequence in a transaction:

	err := store.Update(func(tx *kv.Tx) error {
		encoded, err := tx.Get(today)
		// ... modify ...
		return tx.Set(today, encoded)
	})

On postgres, reads inside Update take FOR UPDATE row locks, so two
concurrent votes against the same day record serialize instead of
clobbering each other's increment. On sqlite the single write
connection provides the same serialization.

An error returned from the function rolls the transaction back and is
returned to the caller unchanged, so domain errors (already voted,
invalid card) pass through Update untouched.
*/
package kv
