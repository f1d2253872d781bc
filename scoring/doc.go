// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scoring records score clicks exactly once per token.

Each token moves from unclaimed to claimed and never back:

	outcome, err := recorder.Claim(ctx, tok, scoring.Client{IP: ip, UserAgent: ua})

  - StatusInvalid: verification failed, storage was not touched
  - StatusRecorded: this call stored the event
  - StatusAlreadyRecorded: an earlier click stored it; Score is the stored score

Uniqueness is enforced by the store's constrained insert. When two first
clicks race, the loser re-reads the winner's row and reports
StatusAlreadyRecorded. A non-nil error always means a storage fault.
*/
package scoring
