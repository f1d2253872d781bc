// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-score/auth"
	"github.com/danielhkuo/quickly-score/db"
	"github.com/danielhkuo/quickly-score/models"
	"github.com/danielhkuo/quickly-score/token"
)

// ErrConflict means the store refused an insert without a matching token row.
var ErrConflict = errors.New("score event conflict")

// Status is the result of a claim attempt.
type Status int

const (
	// StatusInvalid means the token failed verification. Nothing was stored.
	StatusInvalid Status = iota
	// StatusRecorded means this call created the event.
	StatusRecorded
	// StatusAlreadyRecorded means an earlier click already created the event.
	StatusAlreadyRecorded
)

func (s Status) String() string {
	switch s {
	case StatusRecorded:
		return "recorded"
	case StatusAlreadyRecorded:
		return "already_recorded"
	default:
		return "invalid"
	}
}

// Outcome describes a claim. Score is the effective (stored) score.
type Outcome struct {
	Status   Status
	Score    int
	Campaign string
}

// Used reports whether the token had been claimed before this call.
func (o Outcome) Used() bool {
	return o.Status == StatusAlreadyRecorded
}

// Client is the request context captured with a new event.
type Client struct {
	IP        string
	UserAgent string
}

// Verifier checks a token and returns its payload.
type Verifier interface {
	Verify(tok string) (token.Payload, error)
}

// EventStore persists score events keyed by token.
type EventStore interface {
	FindByToken(ctx context.Context, tok string) (models.ScoreEvent, error)
	CreateIfAbsent(ctx context.Context, ev models.ScoreEvent) (bool, error)
}

// Recorder turns verified tokens into at most one stored event each.
type Recorder struct {
	verifier Verifier
	store    EventStore
	ipSalt   string
	now      func() time.Time
	newID    func() (string, error)
}

func NewRecorder(verifier Verifier, store EventStore, ipSalt string) *Recorder {
	return &Recorder{
		verifier: verifier,
		store:    store,
		ipSalt:   ipSalt,
		now:      time.Now,
		newID:    func() (string, error) { return auth.GenerateID(16) },
	}
}

// Claim verifies tok and records it once. Verification failures come back
// as StatusInvalid with a nil error; only storage faults return an error.
func (r *Recorder) Claim(ctx context.Context, tok string, client Client) (Outcome, error) {
	payload, err := r.verifier.Verify(tok)
	if err != nil {
		return Outcome{Status: StatusInvalid}, nil
	}

	existing, err := r.store.FindByToken(ctx, tok)
	if err == nil {
		return alreadyRecorded(existing), nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return Outcome{}, err
	}

	ev, err := r.newEvent(tok, payload, client)
	if err != nil {
		return Outcome{}, err
	}

	created, err := r.store.CreateIfAbsent(ctx, ev)
	if err != nil {
		return Outcome{}, err
	}
	if created {
		return Outcome{Status: StatusRecorded, Score: ev.Score, Campaign: ev.Campaign}, nil
	}

	// Lost the insert race; the winner's row is the answer.
	existing, err = r.store.FindByToken(ctx, tok)
	if errors.Is(err, db.ErrNotFound) {
		return Outcome{}, fmt.Errorf("%w: insert skipped but no event holds the token", ErrConflict)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to read claimed score event: %w", err)
	}
	return alreadyRecorded(existing), nil
}

func (r *Recorder) newEvent(tok string, payload token.Payload, client Client) (models.ScoreEvent, error) {
	id, err := r.newID()
	if err != nil {
		return models.ScoreEvent{}, err
	}

	meta := json.RawMessage("{}")
	if payload.Metadata != nil {
		meta, err = json.Marshal(payload.Metadata)
		if err != nil {
			return models.ScoreEvent{}, fmt.Errorf("failed to encode metadata: %w", err)
		}
	}

	ev := models.ScoreEvent{
		ID:        id,
		Token:     tok,
		Email:     payload.Subject,
		Campaign:  payload.Campaign,
		Score:     payload.Score,
		Meta:      meta,
		Source:    models.SourceEmail,
		ClickedAt: r.now().UTC(),
	}
	if client.IP != "" {
		h := auth.HashIP(client.IP, r.ipSalt)
		ev.IPHash = &h
	}
	if client.UserAgent != "" {
		ua := client.UserAgent
		ev.UserAgent = &ua
	}
	return ev, nil
}

func alreadyRecorded(ev models.ScoreEvent) Outcome {
	return Outcome{Status: StatusAlreadyRecorded, Score: ev.Score, Campaign: ev.Campaign}
}
