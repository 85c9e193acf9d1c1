// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/thing-of-the-day/cliparse"
	"github.com/danielhkuo/thing-of-the-day/dayrecord"
	"github.com/danielhkuo/thing-of-the-day/db"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/models"

	_ "modernc.org/sqlite"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each call gets its own database; nothing leaks between tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A second pool connection would see a separate empty :memory:
	// database, so the pool is pinned to one connection.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore creates a key-value store backed by a fresh in-memory
// database.
func SetupTestStore(t *testing.T) *kv.Store {
	t.Helper()
	return kv.New(SetupTestDB(t), false)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3324,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseTypeSQLite,
		AdminKeySalt: "test-admin-salt",
		NoScheduler:  true,
	}
}

// SeedDay stores an encoded day record for the given day key.
func SeedDay(t *testing.T, store *kv.Store, day string, cards []models.Card) {
	t.Helper()
	if err := store.Set(day, dayrecord.Encode(cards)); err != nil {
		t.Fatalf("Failed to seed day %s: %v", day, err)
	}
}

// SeedTopPost stores an archived top post for the given date.
func SeedTopPost(t *testing.T, store *kv.Store, date string, top models.TopPost) {
	t.Helper()

	monthKey, dayField, err := dayrecord.SplitDayKey(date)
	if err != nil {
		t.Fatalf("Bad seed date %s: %v", date, err)
	}
	payload, err := json.Marshal(top)
	if err != nil {
		t.Fatalf("Failed to marshal top post: %v", err)
	}
	if err := store.HSet(monthKey, dayField, string(payload)); err != nil {
		t.Fatalf("Failed to seed top post for %s: %v", date, err)
	}
}

// ClaimTestUser registers a username in the session hashes and returns
// the player token.
func ClaimTestUser(t *testing.T, store *kv.Store, username, token string) string {
	t.Helper()

	if err := store.HSet("players", token, username); err != nil {
		t.Fatalf("Failed to claim test user: %v", err)
	}
	if err := store.HSet("usernames", username, token); err != nil {
		t.Fatalf("Failed to claim test user: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
