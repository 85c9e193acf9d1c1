// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/danielhkuo/thing-of-the-day/auth"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/middleware"
	"github.com/danielhkuo/thing-of-the-day/models"
)

// Session hashes: players maps token to username, usernames maps
// username to token so claims stay unique.
const (
	playersKey   = "players"
	usernamesKey = "usernames"
)

// anonUsername labels actions from connections without a claimed
// session. Anonymous users share one daily allowance.
const anonUsername = "anon"

var errUsernameTaken = errors.New("Username already taken")

// SessionHandler manages username claims and player tokens.
type SessionHandler struct {
	store *kv.Store
}

func NewSessionHandler(store *kv.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// ClaimSession handles POST /session
// Claims a username and returns a player token for it.
func (h *SessionHandler) ClaimSession(w http.ResponseWriter, r *http.Request) {
	var req models.ClaimSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username is required")
		return
	}
	if n := utf8.RuneCountInString(req.Username); n < 2 || n > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Username must be 2-50 characters")
		return
	}
	if req.Username == anonUsername {
		middleware.ErrorResponse(w, http.StatusBadRequest, "That username is reserved")
		return
	}

	token := auth.GeneratePlayerToken()
	err := h.store.Update(func(tx *kv.Tx) error {
		existing, err := tx.HGet(usernamesKey, req.Username)
		if err != nil {
			return err
		}
		if existing != "" {
			return errUsernameTaken
		}
		if err := tx.HSet(usernamesKey, req.Username, token); err != nil {
			return err
		}
		return tx.HSet(playersKey, token, req.Username)
	})
	if errors.Is(err, errUsernameTaken) {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
		return
	}
	if err != nil {
		slog.Error("failed to claim session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim session")
		return
	}

	slog.Info("session claimed", "username", req.Username)
	middleware.JSONResponse(w, http.StatusCreated, models.ClaimSessionResponse{
		Username:    req.Username,
		PlayerToken: token,
	})
}

// lookupUsername resolves a player token to its username. Unknown or
// missing tokens fall back to the shared anonymous identity.
func lookupUsername(store *kv.Store, token string) string {
	if token == "" {
		return anonUsername
	}
	username, err := store.HGet(playersKey, token)
	if err != nil {
		slog.Warn("player token lookup failed", "error", err)
		return anonUsername
	}
	if username == "" {
		return anonUsername
	}
	return username
}
