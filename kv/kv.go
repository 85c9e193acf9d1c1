// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// Store is a key-value view over the kv_string and kv_hash tables.
// Plain reads and writes hit the database directly; multi-step
// read-modify-write sequences go through Update, which wraps them in
// a transaction so concurrent writers cannot clobber each other.
type Store struct {
	db       *sql.DB
	postgres bool
}

// New creates a store. postgres selects FOR UPDATE row locking inside
// transactions; sqlite serializes writers at the connection level
// instead and does not accept the clause.
func New(db *sql.DB, postgres bool) *Store {
	return &Store{db: db, postgres: postgres}
}

// Get returns the string value at key, or "" when the key is absent.
func (s *Store) Get(key string) (string, error) {
	return get(s.db, key, false)
}

// Set stores value at key, overwriting any previous value.
func (s *Store) Set(key, value string) error {
	return set(s.db, key, value)
}

// HGet returns the hash field value, or "" when key or field is absent.
func (s *Store) HGet(key, field string) (string, error) {
	return hget(s.db, key, field, false)
}

// HSet stores a single hash field.
func (s *Store) HSet(key, field, value string) error {
	return hset(s.db, key, field, value)
}

// HSetAll stores several hash fields of one key.
func (s *Store) HSetAll(key string, fields map[string]string) error {
	for field, value := range fields {
		if err := hset(s.db, key, field, value); err != nil {
			return err
		}
	}
	return nil
}

// HGetAll returns all field/value pairs of a hash key. A missing key
// yields an empty map.
func (s *Store) HGetAll(key string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT field, value FROM kv_hash WHERE key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
		}
		fields[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv hgetall %q: %w", key, err)
	}
	return fields, nil
}

// updateRetries bounds replays of a serialization-failed transaction.
const updateRetries = 5

// Update runs fn inside a transaction and commits when it returns nil.
// Reads through the Tx lock the rows they touch on postgres, so a
// concurrent vote cannot read the same day record snapshot and lose an
// increment. Any error from fn rolls the transaction back and is
// returned unchanged.
//
// FOR UPDATE cannot lock a row that does not exist yet, so two
// transactions creating the same key would both read it as absent and
// the second upsert would overwrite the first. On postgres the
// transaction therefore runs serializable, and fn is replayed when the
// overlap surfaces as a serialization failure. fn must be safe to call
// more than once.
func (s *Store) Update(fn func(tx *Tx) error) error {
	if !s.postgres {
		return s.updateOnce(nil, fn)
	}

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	var err error
	for attempt := 0; attempt < updateRetries; attempt++ {
		err = s.updateOnce(opts, fn)
		if !retryable(err) {
			return err
		}
	}
	return fmt.Errorf("kv update: retries exhausted: %w", err)
}

func (s *Store) updateOnce(opts *sql.TxOptions, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("kv update: begin: %w", err)
	}

	tx := &Tx{tx: sqlTx, postgres: s.postgres}
	if err := fn(tx); err != nil {
		sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("kv update: commit: %w", err)
	}
	return nil
}

// retryable reports whether err is a postgres conflict that succeeds
// when the transaction is replayed: serialization failure, deadlock,
// or a unique violation from two transactions inserting the same key.
func retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", "40P01", "23505":
		return true
	}
	return false
}

// Tx exposes the store operations inside an Update transaction.
type Tx struct {
	tx       *sql.Tx
	postgres bool
}

func (t *Tx) Get(key string) (string, error) {
	return get(t.tx, key, t.postgres)
}

func (t *Tx) Set(key, value string) error {
	return set(t.tx, key, value)
}

func (t *Tx) HGet(key, field string) (string, error) {
	return hget(t.tx, key, field, t.postgres)
}

func (t *Tx) HSet(key, field, value string) error {
	return hset(t.tx, key, field, value)
}

func (t *Tx) HSetAll(key string, fields map[string]string) error {
	for field, value := range fields {
		if err := hset(t.tx, key, field, value); err != nil {
			return err
		}
	}
	return nil
}

// Shared statement helpers. Absent keys and fields read as "", not as
// errors, matching the get/hGet semantics the game logic expects.

func get(q querier, key string, lock bool) (string, error) {
	query := `SELECT value FROM kv_string WHERE key = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var value string
	err := q.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, nil
}

func set(q querier, key, value string) error {
	_, err := q.Exec(`
		INSERT INTO kv_string (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func hget(q querier, key, field string, lock bool) (string, error) {
	query := `SELECT value FROM kv_hash WHERE key = $1 AND field = $2`
	if lock {
		query += ` FOR UPDATE`
	}

	var value string
	err := q.QueryRow(query, key, field).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("kv hget %q.%q: %w", key, field, err)
	}
	return value, nil
}

func hset(q querier, key, field, value string) error {
	_, err := q.Exec(`
		INSERT INTO kv_hash (key, field, value) VALUES ($1, $2, $3)
		ON CONFLICT (key, field) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, field, value)
	if err != nil {
		return fmt.Errorf("kv hset %q.%q: %w", key, field, err)
	}
	return nil
}
