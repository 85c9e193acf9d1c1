// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/thing-of-the-day/cliparse"
	"github.com/danielhkuo/thing-of-the-day/game"
	"github.com/danielhkuo/thing-of-the-day/handlers"
	"github.com/danielhkuo/thing-of-the-day/jobs"
	"github.com/danielhkuo/thing-of-the-day/kv"
	"github.com/danielhkuo/thing-of-the-day/middleware"
)

func NewRouter(store *kv.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	g := game.New(store)
	sessionHandler := handlers.NewSessionHandler(store)
	gameHandler := handlers.NewGameHandler(g, store)
	archiveHandler := handlers.NewArchiveHandler(g, jobs.NewArchiver(store), store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session management
	mux.HandleFunc("POST /session", middleware.WithLogging(sessionHandler.ClaimSession))

	// View message channel
	mux.HandleFunc("GET /game/connect", middleware.WithLogging(gameHandler.Connect))

	// Today and the archive
	mux.HandleFunc("GET /today", middleware.WithLogging(archiveHandler.GetToday))
	mux.HandleFunc("GET /archive/top-post", middleware.WithLogging(archiveHandler.GetTopPost))
	mux.HandleFunc("GET /archive/{year}/{month}", middleware.WithLogging(archiveHandler.GetMonthlyTopPosts))

	// Admin operations
	mux.HandleFunc("POST /admin/archive/run", middleware.WithLogging(archiveHandler.RunArchive))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("thing-of-the-day API v1"))
	})

	return mux
}
