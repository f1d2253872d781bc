// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Score API.

# Handler Types

  - ScoreHandler: Records a click on a signed score link
  - AdminHandler: Metrics, CSV export and link issuance
  - Thanks: Confirmation page shown after a click

Handlers are created via constructor functions that accept *sql.DB:

	scoreHandler := handlers.NewScoreHandler(db, cfg, codec)
	adminHandler := handlers.NewAdminHandler(db, issuer)

# Score Clicks

	GET /api/score/{token} → RecordScore

The token is verified before storage is touched. A blank token is a 400,
any verification failure is a 403, and a storage failure is a 500.
Otherwise the response is a 302 to /thanks carrying score, campaign and
used=true when the token had already been recorded. Repeat clicks and
mail-scanner prefetches never add rows or change the stored score.

# Admin

	GET  /api/admin/metrics → Metrics
	GET  /api/admin/export  → Export (text/csv attachment)
	POST /api/admin/links   → IssueLinks

Admin routes are wrapped by middleware.RequireAdminKey in the router.
*/
package handlers
