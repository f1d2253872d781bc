// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package token builds and verifies signed score tokens.

# Wire Format

A token is two URL-safe base64 segments (no padding) joined by a dot:

	base64url(JSON payload) "." base64url(HMAC-SHA256(key, encoded payload))

Payload fields:

	t   subject (usually an email address)
	c   campaign
	s   score
	i   nonce (UUID)
	ts  issue time, epoch milliseconds
	m   optional metadata object

# Usage

	codec, err := token.NewCodec([]byte(cfg.SigningKey))
	tok, err := codec.Issue("t@example.com", "fall-2025", 5, map[string]any{"group": "A"})
	payload, err := codec.Verify(tok)

Verify needs no database. Any malformed, tampered, or undecodable token
yields ErrInvalidToken and nothing else, so callers cannot tell which check
failed. Signatures are compared with hmac.Equal.

Expiry is not checked here. IssuedAt is carried for auditing and for callers
that want to enforce a maximum age.
*/
package token
