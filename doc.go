// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Score API server.

Quickly Score collects one-click satisfaction scores from email. Each
recipient gets one signed link per score; clicking a link records the score
once and redirects to a thank-you page.

# Starting the Server

The server reads environment variables (optionally from a .env file) or CLI flags:

	DATABASE_URL=file:nps.db EMAIL_SIGNING_KEY=... ADMIN_API_KEY=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -signing-key ...

# Configuration

Required settings:

  - DATABASE_URL (-d): Connection string
  - EMAIL_SIGNING_KEY (-signing-key): HMAC key for score tokens (production only)

Optional settings:

  - ADMIN_API_KEY (-admin-key): Key for the admin endpoints; when unset the
    server starts with a warning and every admin request gets 401
  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - APP_ENV (-env): production or development (default: production)
  - APP_HOST (-host): Base URL embedded in links
  - IP_HASH_SALT (-ip-salt): Salt for hashed client IPs
  - SCORE_MIN, SCORE_MAX (-score-min, -score-max): Score range (default: 1..5)

Outside production a missing signing key falls back to a development key
with a warning.

# Architecture

  - token: Signed token issue and verify
  - links: Per-score link generation
  - scoring: Verify-then-claim recording of a click
  - db: Schema, driver selection and the event store
  - handlers: HTTP request handlers (score, thanks, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin auth, JSON helpers
  - bulk: CSV link generation for mailing lists
  - cmd/bulklinks: Command-line front end for bulk

See package documentation for each component.
*/
package main
