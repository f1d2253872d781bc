// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema is shared by PostgreSQL and SQLite, so it sticks to types both
// understand. clicked_at holds epoch milliseconds (UTC).
const schema = `
-- Recorded score clicks, one per token
CREATE TABLE IF NOT EXISTS nps_score (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    campaign_id TEXT NOT NULL,
    score INTEGER NOT NULL,
    meta TEXT NOT NULL DEFAULT '{}',
    ip_hash TEXT,
    user_agent TEXT,
    source TEXT NOT NULL DEFAULT 'email',
    clicked_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nps_score_campaign_id ON nps_score(campaign_id);
CREATE INDEX IF NOT EXISTS idx_nps_score_clicked_at ON nps_score(clicked_at);
`
