// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and stores score events.

# Connecting

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:nps.db")

SQLite connections are limited to a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - nps_score: one row per claimed token (token is UNIQUE)

# Claiming

CreateIfAbsent relies on the token uniqueness constraint:

	INSERT ... ON CONFLICT (token) DO NOTHING

A losing concurrent insert affects zero rows and reports false, which the
caller treats as "already recorded". Unique-violation errors from either
driver are mapped the same way.

# Indexes

  - nps_score.token (unique)
  - nps_score.campaign_id
  - nps_score.clicked_at
*/
package db
