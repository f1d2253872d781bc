// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Score API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux, err := router.NewRouter(db, cfg, codec)

It fails only when the configured score range cannot mint links.

# Endpoints

Health:

	GET /health

Score capture (public, the signed token is the credential):

	GET /api/score/{token} - Record the click and redirect to /thanks
	GET /thanks            - Confirmation page

Admin (requires X-Admin-API-Key, or ?key= for browser downloads):

	GET  /api/admin/metrics - Totals, per-campaign averages, distribution
	GET  /api/admin/export  - CSV of every event, optional ?campaignId=
	POST /api/admin/links   - Mint one link per score for a recipient

Request logging records the matched pattern rather than the raw path, so
tokens never reach the logs.
*/
package router
