// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/danielhkuo/quickly-score/cliparse"
	"github.com/danielhkuo/quickly-score/handlers"
	"github.com/danielhkuo/quickly-score/links"
	"github.com/danielhkuo/quickly-score/middleware"
	"github.com/danielhkuo/quickly-score/token"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, codec *token.Codec) (*http.ServeMux, error) {
	issuer, err := links.NewLinkIssuer(codec, cfg.AppHost, cfg.ScoreRange())
	if err != nil {
		return nil, fmt.Errorf("link issuer: %w", err)
	}

	mux := http.NewServeMux()

	// Initialize handlers
	scoreHandler := handlers.NewScoreHandler(db, cfg, codec)
	adminHandler := handlers.NewAdminHandler(db, issuer)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminKey(cfg.AdminAPIKey, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Score capture (public, token is the credential)
	mux.HandleFunc("GET /"+links.ScorePath+"/{token...}", middleware.WithLogging(scoreHandler.RecordScore))
	mux.HandleFunc("GET "+handlers.ThanksPath, middleware.WithLogging(handlers.Thanks))

	// Admin operations (require X-Admin-API-Key)
	mux.HandleFunc("GET /api/admin/metrics", admin(adminHandler.Metrics))
	mux.HandleFunc("GET /api/admin/export", admin(adminHandler.Export))
	mux.HandleFunc("POST /api/admin/links", admin(adminHandler.IssueLinks))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-score API v1"))
	})

	return mux, nil
}
