// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, route pattern, remote) and completion
(duration_ms). The route pattern is logged instead of the raw path so score
tokens never reach the logs.

# Admin Key

Guard admin endpoints with the shared ADMIN_API_KEY:

	mux.HandleFunc("GET /api/admin/metrics",
		middleware.RequireAdminKey(cfg.AdminAPIKey, adminHandler.Metrics))

The key is read from the X-Admin-API-Key header, or the "key" query
parameter. Missing or wrong keys get 401.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-API-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.IssueLinksRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for IP hashing when a score is recorded.
*/
package middleware
