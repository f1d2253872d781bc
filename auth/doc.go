// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key checks, ID generation and IP hashing.

# Admin Keys

Admin endpoints share one static key (ADMIN_API_KEY):

	err := auth.ValidateAdminKey(r.Header.Get("X-Admin-API-Key"), cfg.AdminAPIKey)

Comparison uses hmac.Equal. When no key is configured every request is
rejected.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

Recorded score events never store a raw client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
