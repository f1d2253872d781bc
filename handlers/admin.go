// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-score/db"
	"github.com/danielhkuo/quickly-score/links"
	"github.com/danielhkuo/quickly-score/middleware"
	"github.com/danielhkuo/quickly-score/models"
)

const (
	recentLimit     = 20
	defaultCampaign = "default"
	// ISO-8601 with milliseconds, UTC
	exportTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

var exportHeader = []string{"id", "email", "score", "campaign", "timestamp", "source", "ip_hash", "user_agent", "meta"}

type AdminHandler struct {
	store  *db.Store
	issuer *links.LinkIssuer
	now    func() time.Time
}

func NewAdminHandler(conn *sql.DB, issuer *links.LinkIssuer) *AdminHandler {
	return &AdminHandler{
		store:  db.NewStore(conn),
		issuer: issuer,
		now:    time.Now,
	}
}

// Metrics handles GET /api/admin/metrics
func (h *AdminHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.Metrics(r.Context(), recentLimit)
	if err != nil {
		slog.Error("failed to fetch metrics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, metrics)
}

// Export handles GET /api/admin/export
// Optional ?campaignId= limits the export to one campaign.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	campaign := r.URL.Query().Get("campaignId")

	events, err := h.store.ListEvents(r.Context(), campaign)
	if err != nil {
		slog.Error("failed to export scores", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write(exportHeader)
	for _, ev := range events {
		cw.Write([]string{
			ev.ID,
			ev.Email,
			strconv.Itoa(ev.Score),
			ev.Campaign,
			ev.ClickedAt.UTC().Format(exportTimeLayout),
			ev.Source,
			deref(ev.IPHash),
			deref(ev.UserAgent),
			string(ev.Meta),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("failed to write CSV", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("scores exported", "rows", len(events), "campaign", campaign)

	filename := "nps-export-" + h.now().UTC().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// IssueLinks handles POST /api/admin/links
func (h *AdminHandler) IssueLinks(w http.ResponseWriter, r *http.Request) {
	var req models.IssueLinksRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}
	campaign := strings.TrimSpace(req.Campaign)
	if campaign == "" {
		campaign = defaultCampaign
	}

	issued, err := h.issuer.IssueAll(email, campaign, req.Meta)
	if err != nil {
		slog.Error("failed to issue links", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue links")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.IssueLinksResponse{Links: issued})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
