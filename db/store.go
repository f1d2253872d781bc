// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/quickly-score/models"
)

// ErrNotFound is returned when no score event matches the token.
var ErrNotFound = errors.New("score event not found")

// pq reports unique_violation as SQLSTATE 23505
const pqUniqueViolation = "23505"

// tokenConstraint is PostgreSQL's default name for the UNIQUE on nps_score.token.
const tokenConstraint = "nps_score_token_key"

// Store reads and writes recorded score events.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

const eventColumns = `id, token, email, campaign_id, score, meta, ip_hash, user_agent, source, clicked_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.ScoreEvent, error) {
	var ev models.ScoreEvent
	var meta string
	var clickedAt int64
	err := row.Scan(
		&ev.ID, &ev.Token, &ev.Email, &ev.Campaign, &ev.Score,
		&meta, &ev.IPHash, &ev.UserAgent, &ev.Source, &clickedAt,
	)
	if err != nil {
		return models.ScoreEvent{}, err
	}
	ev.Meta = json.RawMessage(meta)
	ev.ClickedAt = fromMillis(clickedAt)
	return ev, nil
}

// FindByToken returns the event recorded for tok, or ErrNotFound.
func (s *Store) FindByToken(ctx context.Context, tok string) (models.ScoreEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM nps_score
		WHERE token = $1
	`, tok)

	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return models.ScoreEvent{}, ErrNotFound
	}
	if err != nil {
		return models.ScoreEvent{}, fmt.Errorf("failed to query score event: %w", err)
	}
	return ev, nil
}

// CreateIfAbsent inserts ev unless an event with the same token exists.
// It reports false, without error, when the token was already taken.
func (s *Store) CreateIfAbsent(ctx context.Context, ev models.ScoreEvent) (bool, error) {
	meta := string(ev.Meta)
	if meta == "" {
		meta = "{}"
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO nps_score (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (token) DO NOTHING
	`, ev.ID, ev.Token, ev.Email, ev.Campaign, ev.Score,
		meta, ev.IPHash, ev.UserAgent, ev.Source, toMillis(ev.ClickedAt))
	if err != nil {
		if isTokenConflict(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert score event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n == 1, nil
}

// ListEvents returns recorded events newest first, optionally for one campaign.
func (s *Store) ListEvents(ctx context.Context, campaign string) ([]models.ScoreEvent, error) {
	var rows *sql.Rows
	var err error
	if campaign == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+eventColumns+`
			FROM nps_score
			ORDER BY clicked_at DESC, id
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+eventColumns+`
			FROM nps_score
			WHERE campaign_id = $1
			ORDER BY clicked_at DESC, id
		`, campaign)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query score events: %w", err)
	}
	defer rows.Close()

	events := []models.ScoreEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score events: %w", err)
	}
	return events, nil
}

// Metrics aggregates recorded events by campaign and by score, plus the
// recentLimit newest clicks.
func (s *Store) Metrics(ctx context.Context, recentLimit int) (models.MetricsResponse, error) {
	resp := models.MetricsResponse{
		ByCampaign:   []models.CampaignStats{},
		Distribution: []models.ScoreCount{},
		Recent:       []models.RecentScore{},
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nps_score`).Scan(&resp.Total); err != nil {
		return resp, fmt.Errorf("failed to count score events: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT campaign_id, COUNT(score), AVG(score)
		FROM nps_score
		GROUP BY campaign_id
		ORDER BY campaign_id
	`)
	if err != nil {
		return resp, fmt.Errorf("failed to aggregate by campaign: %w", err)
	}
	for rows.Next() {
		var stats models.CampaignStats
		var avg sql.NullFloat64
		if err := rows.Scan(&stats.Campaign, &stats.Count, &avg); err != nil {
			rows.Close()
			return resp, fmt.Errorf("failed to scan campaign stats: %w", err)
		}
		if stats.Campaign == "" {
			stats.Campaign = "unknown"
		}
		if avg.Valid {
			stats.Average = &avg.Float64
		}
		resp.ByCampaign = append(resp.ByCampaign, stats)
	}
	if err := closeRows(rows); err != nil {
		return resp, fmt.Errorf("failed to aggregate by campaign: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT score, COUNT(*)
		FROM nps_score
		GROUP BY score
		ORDER BY score ASC
	`)
	if err != nil {
		return resp, fmt.Errorf("failed to aggregate by score: %w", err)
	}
	for rows.Next() {
		var sc models.ScoreCount
		if err := rows.Scan(&sc.Score, &sc.Count); err != nil {
			rows.Close()
			return resp, fmt.Errorf("failed to scan score distribution: %w", err)
		}
		resp.Distribution = append(resp.Distribution, sc)
	}
	if err := closeRows(rows); err != nil {
		return resp, fmt.Errorf("failed to aggregate by score: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, score, campaign_id, clicked_at, source
		FROM nps_score
		ORDER BY clicked_at DESC, id
		LIMIT $1
	`, recentLimit)
	if err != nil {
		return resp, fmt.Errorf("failed to query recent scores: %w", err)
	}
	for rows.Next() {
		var rs models.RecentScore
		var clickedAt int64
		if err := rows.Scan(&rs.ID, &rs.Score, &rs.Campaign, &clickedAt, &rs.Source); err != nil {
			rows.Close()
			return resp, fmt.Errorf("failed to scan recent score: %w", err)
		}
		rs.ClickedAt = fromMillis(clickedAt)
		resp.Recent = append(resp.Recent, rs)
	}
	if err := closeRows(rows); err != nil {
		return resp, fmt.Errorf("failed to query recent scores: %w", err)
	}

	return resp, nil
}

func closeRows(rows *sql.Rows) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	return err
}

// isTokenConflict reports a uniqueness conflict on the token column from
// either driver. Primary key collisions are real errors.
func isTokenConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation && pqErr.Constraint == tokenConstraint
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
