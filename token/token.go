// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Separator joins the encoded payload and the encoded signature.
const Separator = "."

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingKey   = errors.New("signing key is required")
)

// Strict decoding so a signature has exactly one textual form. Tokens are
// unique keys in storage; lenient trailing bits would let one signature be
// spelled two ways.
var encoding = base64.RawURLEncoding.Strict()

// Payload is the signed content of a score token.
type Payload struct {
	Subject  string         `json:"t"`
	Campaign string         `json:"c"`
	Score    int            `json:"s"`
	Nonce    string         `json:"i"`
	IssuedAt int64          `json:"ts"` // epoch milliseconds
	Metadata map[string]any `json:"m,omitempty"`
}

// IssuedTime returns IssuedAt as a time.Time.
func (p Payload) IssuedTime() time.Time {
	return time.UnixMilli(p.IssuedAt).UTC()
}

// Codec signs and verifies tokens with a single process-wide key.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	key   []byte
	now   func() time.Time
	nonce func() string
}

// NewCodec returns a Codec for key. An empty key is rejected.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Codec{
		key:   k,
		now:   time.Now,
		nonce: uuid.NewString,
	}, nil
}

// Issue builds a signed token for one (subject, campaign, score) answer.
// Every call mints a fresh nonce, so identical inputs never share a token.
func (c *Codec) Issue(subject, campaign string, score int, metadata map[string]any) (string, error) {
	p := Payload{
		Subject:  subject,
		Campaign: campaign,
		Score:    score,
		Nonce:    c.nonce(),
		IssuedAt: c.now().UnixMilli(),
		Metadata: metadata,
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode token payload: %w", err)
	}

	encoded := encoding.EncodeToString(raw)
	return encoded + Separator + encoding.EncodeToString(c.sign(encoded)), nil
}

// Verify checks the token signature and returns the decoded payload.
// Every failure is reported as ErrInvalidToken.
func (c *Codec) Verify(tok string) (Payload, error) {
	encoded, sig, ok := strings.Cut(tok, Separator)
	if !ok || encoded == "" || sig == "" || strings.Contains(sig, Separator) {
		return Payload{}, ErrInvalidToken
	}

	given, err := encoding.DecodeString(sig)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	if !hmac.Equal(given, c.sign(encoded)) {
		return Payload{}, ErrInvalidToken
	}

	raw, err := encoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	p, err := decodePayload(raw)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	return p, nil
}

func (c *Codec) sign(encoded string) []byte {
	h := hmac.New(sha256.New, c.key)
	h.Write([]byte(encoded))
	return h.Sum(nil)
}

// decodePayload accepts exactly one JSON object. Numbers inside metadata
// stay json.Number so they come back as written.
func decodePayload(raw []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Payload{}, errors.New("payload is not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return Payload{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Payload{}, errors.New("trailing data after payload")
	}
	return p, nil
}

// Redact shortens a token for log lines.
func Redact(tok string) string {
	const keep = 10
	if len(tok) <= keep {
		return tok
	}
	return tok[:keep] + "..."
}
