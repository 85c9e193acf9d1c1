// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// handlers/archive_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/thing-of-the-day/auth"
	"github.com/danielhkuo/thing-of-the-day/game"
	"github.com/danielhkuo/thing-of-the-day/jobs"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/models"
	"github.com/danielhkuo/thing-of-the-day/testutil"
)

func setupArchiveHandler(t *testing.T) (*ArchiveHandler, *kv.Store) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	g := game.New(store)
	h := NewArchiveHandler(g, jobs.NewArchiver(store), store, testutil.GetTestConfig())
	h.now = func() time.Time { return testNow }
	return h, store
}

func TestGetToday(t *testing.T) {
	h, store := setupArchiveHandler(t)
	token := testutil.ClaimTestUser(t, store, "alice", "token-alice")
	testutil.SeedDay(t, store, "2025-06-15", []models.Card{
		{Text: "Hello", Username: "bob", Votes: 2},
	})

	req := testutil.MakeRequest("GET", "/today", nil, map[string]string{"X-Player-Token": token})
	w := httptest.NewRecorder()
	h.GetToday(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var snap models.Snapshot
	testutil.AssertJSON(t, w, &snap)
	if snap.Username != "alice" {
		t.Errorf("Expected username 'alice', got '%s'", snap.Username)
	}
	if len(snap.Cards) != 1 || snap.Cards[0].Text != "Hello" {
		t.Errorf("Unexpected cards: %+v", snap.Cards)
	}
}

func TestGetTodayAnonymous(t *testing.T) {
	h, _ := setupArchiveHandler(t)

	req := testutil.MakeRequest("GET", "/today", nil, nil)
	w := httptest.NewRecorder()
	h.GetToday(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var snap models.Snapshot
	testutil.AssertJSON(t, w, &snap)
	if snap.Username != "anon" {
		t.Errorf("Expected 'anon', got '%s'", snap.Username)
	}
}

func TestGetTopPost(t *testing.T) {
	h, store := setupArchiveHandler(t)
	testutil.SeedTopPost(t, store, "2025-06-14", models.TopPost{Text: "Winner", Username: "alice", Votes: 7})

	req := testutil.MakeRequest("GET", "/archive/top-post?date=2025-06-14", nil, nil)
	w := httptest.NewRecorder()
	h.GetTopPost(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var data models.TopPostData
	testutil.AssertJSON(t, w, &data)
	if data.TopPost == nil || data.TopPost.Text != "Winner" {
		t.Errorf("Unexpected top post: %+v", data.TopPost)
	}
}

func TestGetTopPostValidation(t *testing.T) {
	h, _ := setupArchiveHandler(t)

	testCases := []struct {
		name string
		path string
	}{
		{"missing date", "/archive/top-post"},
		{"malformed date", "/archive/top-post?date=June+14"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", tc.path, nil, nil)
			w := httptest.NewRecorder()
			h.GetTopPost(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestGetTopPostUnarchivedDate(t *testing.T) {
	h, _ := setupArchiveHandler(t)

	req := testutil.MakeRequest("GET", "/archive/top-post?date=2025-06-01", nil, nil)
	w := httptest.NewRecorder()
	h.GetTopPost(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var data models.TopPostData
	testutil.AssertJSON(t, w, &data)
	if data.TopPost != nil {
		t.Errorf("Expected null top post, got %+v", data.TopPost)
	}
}

func TestGetMonthlyTopPosts(t *testing.T) {
	h, store := setupArchiveHandler(t)
	testutil.SeedTopPost(t, store, "2025-06-02", models.TopPost{Text: "First", Username: "alice", Votes: 5})
	testutil.SeedTopPost(t, store, "2025-06-14", models.TopPost{Text: "Second", Username: "bob", Votes: 3})

	req := testutil.MakeRequest("GET", "/archive/2025/6", nil, nil)
	req.SetPathValue("year", "2025")
	req.SetPathValue("month", "6")
	w := httptest.NewRecorder()
	h.GetMonthlyTopPosts(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var data models.MonthlyTopPostsData
	testutil.AssertJSON(t, w, &data)
	if len(data.TopPosts) != 2 || data.TopPosts[0].Day != "02" {
		t.Errorf("Unexpected top posts: %+v", data.TopPosts)
	}
}

func TestGetMonthlyTopPostsValidation(t *testing.T) {
	h, _ := setupArchiveHandler(t)

	testCases := []struct {
		name  string
		year  string
		month string
	}{
		{"bad year", "abc", "6"},
		{"bad month", "2025", "abc"},
		{"month too large", "2025", "13"},
		{"month zero", "2025", "0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/archive/"+tc.year+"/"+tc.month, nil, nil)
			req.SetPathValue("year", tc.year)
			req.SetPathValue("month", tc.month)
			w := httptest.NewRecorder()
			h.GetMonthlyTopPosts(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestRunArchive(t *testing.T) {
	h, store := setupArchiveHandler(t)
	cfg := testutil.GetTestConfig()
	testutil.SeedDay(t, store, "2025-06-14", []models.Card{
		{Text: "Winner", Username: "alice", Votes: 4},
	})

	adminKey := auth.GenerateAdminKey(auth.AdminScopeArchive, cfg.AdminKeySalt)
	req := testutil.MakeRequest("POST", "/admin/archive/run",
		models.RunArchiveRequest{Date: "2025-06-14"},
		map[string]string{"X-Admin-Key": adminKey})
	w := httptest.NewRecorder()
	h.RunArchive(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RunArchiveResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Date != "2025-06-14" {
		t.Errorf("Expected date echoed back, got '%s'", resp.Date)
	}

	// The archive entry is now readable.
	top := game.New(store).TopPost("2025-06-14")
	if top == nil || top.Text != "Winner" {
		t.Errorf("Expected archived top post, got %+v", top)
	}
}

func TestRunArchiveDefaultsToYesterday(t *testing.T) {
	h, store := setupArchiveHandler(t)
	cfg := testutil.GetTestConfig()
	testutil.SeedDay(t, store, "2025-06-14", []models.Card{
		{Text: "Yesterday's winner", Username: "bob", Votes: 1},
	})

	adminKey := auth.GenerateAdminKey(auth.AdminScopeArchive, cfg.AdminKeySalt)
	req := testutil.MakeRequest("POST", "/admin/archive/run", nil,
		map[string]string{"X-Admin-Key": adminKey})
	w := httptest.NewRecorder()
	h.RunArchive(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RunArchiveResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Date != "2025-06-14" {
		t.Errorf("Expected yesterday 2025-06-14, got '%s'", resp.Date)
	}
}

func TestRunArchiveRequiresAdminKey(t *testing.T) {
	h, _ := setupArchiveHandler(t)

	testCases := []struct {
		name string
		key  string
	}{
		{"missing key", ""},
		{"wrong key", "not-a-real-key"},
		{"wrong scope", auth.GenerateAdminKey("other-scope", testutil.GetTestConfig().AdminKeySalt)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.key != "" {
				headers["X-Admin-Key"] = tc.key
			}
			req := testutil.MakeRequest("POST", "/admin/archive/run", nil, headers)
			w := httptest.NewRecorder()
			h.RunArchive(w, req)
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestRunArchiveRejectsMalformedDate(t *testing.T) {
	h, _ := setupArchiveHandler(t)
	cfg := testutil.GetTestConfig()

	adminKey := auth.GenerateAdminKey(auth.AdminScopeArchive, cfg.AdminKeySalt)
	req := testutil.MakeRequest("POST", "/admin/archive/run",
		models.RunArchiveRequest{Date: "June 14"},
		map[string]string{"X-Admin-Key": adminKey})
	w := httptest.NewRecorder()
	h.RunArchive(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
