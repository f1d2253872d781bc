// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-score/cliparse"
	"github.com/danielhkuo/quickly-score/db"
	"github.com/danielhkuo/quickly-score/middleware"
	"github.com/danielhkuo/quickly-score/scoring"
	"github.com/danielhkuo/quickly-score/token"
)

// ThanksPath is where score clicks are redirected.
const ThanksPath = "/thanks"

type ScoreHandler struct {
	recorder *scoring.Recorder
}

func NewScoreHandler(conn *sql.DB, cfg cliparse.Config, codec *token.Codec) *ScoreHandler {
	return &ScoreHandler{
		recorder: scoring.NewRecorder(codec, db.NewStore(conn), cfg.IPHashSalt),
	}
}

// RecordScore handles GET /api/score/:token
func (h *ScoreHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimSpace(r.PathValue("token"))
	if tok == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid token")
		return
	}

	outcome, err := h.recorder.Claim(r.Context(), tok, scoring.Client{
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		slog.Error("failed to record score", "error", err, "token", token.Redact(tok))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if outcome.Status == scoring.StatusInvalid {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid or expired token")
		return
	}

	slog.Info("score click",
		"status", outcome.Status.String(),
		"campaign", outcome.Campaign,
		"score", outcome.Score,
	)

	http.Redirect(w, r, thanksURL(outcome), http.StatusFound)
}

func thanksURL(o scoring.Outcome) string {
	q := url.Values{}
	q.Set("score", strconv.Itoa(o.Score))
	q.Set("campaign", o.Campaign)
	q.Set("used", strconv.FormatBool(o.Used()))
	return ThanksPath + "?" + q.Encode()
}
