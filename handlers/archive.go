// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/thing-of-the-day/auth"
	"github.com/danielhkuo/thing-of-the-day/cliparse"
	"github.com/danielhkuo/thing-of-the-day/dayrecord"
	"github.com/danielhkuo/thing-of-the-day/game"
	"github.com/danielhkuo/thing-of-the-day/jobs"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/middleware"
	"github.com/danielhkuo/thing-of-the-day/models"
)

// ArchiveHandler serves the REST views over today's cards and the
// archive, plus the admin re-run endpoint.
type ArchiveHandler struct {
	game     *game.Game
	archiver *jobs.Archiver
	store    *kv.Store
	cfg      cliparse.Config

	now func() time.Time
}

func NewArchiveHandler(g *game.Game, archiver *jobs.Archiver, store *kv.Store, cfg cliparse.Config) *ArchiveHandler {
	return &ArchiveHandler{game: g, archiver: archiver, store: store, cfg: cfg, now: time.Now}
}

// GetToday handles GET /today
// Returns the caller's snapshot of the current day. The player token
// travels in the X-Player-Token header or the token query parameter;
// without one the caller reads as the shared anonymous user.
func (h *ArchiveHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Player-Token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	username := lookupUsername(h.store, token)

	snap, err := h.game.Snapshot(username, dayrecord.DayKey(h.now()))
	if err != nil {
		slog.Error("failed to build snapshot", "username", username, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load today's cards")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snap)
}

// GetTopPost handles GET /archive/top-post?date=YYYY-MM-DD
// Returns the archived top post for a date. A date with no archived
// post returns a null topPost, not an error.
func (h *ArchiveHandler) GetTopPost(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date query parameter is required")
		return
	}
	if _, err := dayrecord.ParseDayKey(date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TopPostData{
		Date:    date,
		TopPost: h.game.TopPost(date),
	})
}

// GetMonthlyTopPosts handles GET /archive/{year}/{month}
// Returns the month's archived top posts ordered by day.
func (h *ArchiveHandler) GetMonthlyTopPosts(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid month")
		return
	}

	posts, err := h.game.MonthlyTopPosts(year, month)
	if err != nil {
		slog.Error("failed to load monthly top posts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load archive")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MonthlyTopPostsData{
		Year:     year,
		Month:    month,
		TopPosts: posts,
	})
}

// RunArchive handles POST /admin/archive/run
// Re-runs the archive job for a day. Requires a valid X-Admin-Key.
// Without a date in the body it archives yesterday, the same day the
// scheduled job would pick.
func (h *ArchiveHandler) RunArchive(w http.ResponseWriter, r *http.Request) {
	if err := auth.ValidateAdminKey(auth.AdminScopeArchive, r.Header.Get("X-Admin-Key"), h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.RunArchiveRequest
	if r.ContentLength > 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
	}

	date := req.Date
	if date == "" {
		date, _ = dayrecord.PrevDay(dayrecord.DayKey(h.now()))
	} else if _, err := dayrecord.ParseDayKey(date); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if err := h.archiver.ArchiveDay(date); err != nil {
		slog.Error("manual archive failed", "date", date, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Archive job failed")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RunArchiveResponse{
		Date:    date,
		Message: "Archive job completed",
	})
}
