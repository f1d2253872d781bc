// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all server settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

ParseLinkFlags returns only the link-signing settings, for offline tools
such as cmd/bulklinks.

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type (sqlite or postgres)
	-admin-key     Admin API key
	-ip-salt       Salt for client IP hashing
	-env           Environment (production or development)
	-signing-key   Token signing key
	-host          Public base URL used in score links
	-score-min     Lowest allowed score
	-score-max     Highest allowed score

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p (default 3318)
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t (default sqlite)
	ADMIN_API_KEY     → -admin-key
	IP_HASH_SALT      → -ip-salt (default: signing key)
	APP_ENV           → -env (default production)
	EMAIL_SIGNING_KEY → -signing-key
	APP_HOST          → -host (default http://localhost:3318)
	SCORE_MIN         → -score-min (default 1)
	SCORE_MAX         → -score-max (default 5)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - EMAIL_SIGNING_KEY is missing and the environment is production
  - the score range is empty or negative

Outside production a missing signing key falls back to DevSigningKey with a
warning. A missing ADMIN_API_KEY is allowed; admin endpoints then reject
every request.
*/
package cliparse
