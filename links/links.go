// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package links

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ScorePath is the route prefix that receives score clicks.
const ScorePath = "api/score"

// Issuer is the subset of the token codec needed to mint links.
type Issuer interface {
	Issue(subject, campaign string, score int, metadata map[string]any) (string, error)
}

// Range is a closed interval of allowed scores.
type Range struct {
	Min int
	Max int
}

// DefaultRange is the 1..5 scale used in the survey emails.
var DefaultRange = Range{Min: 1, Max: 5}

// Validate reports whether r is usable.
func (r Range) Validate() error {
	if r.Min < 0 {
		return errors.New("score range minimum must not be negative")
	}
	if r.Min > r.Max {
		return fmt.Errorf("score range minimum %d exceeds maximum %d", r.Min, r.Max)
	}
	return nil
}

// Contains reports whether score lies inside r.
func (r Range) Contains(score int) bool {
	return score >= r.Min && score <= r.Max
}

// Scores lists every score in r in ascending order.
func (r Range) Scores() []int {
	scores := make([]int, 0, r.Max-r.Min+1)
	for s := r.Min; s <= r.Max; s++ {
		scores = append(scores, s)
	}
	return scores
}

// LinkIssuer turns one recipient into a full set of score links.
type LinkIssuer struct {
	tokens   Issuer
	baseHost string
	scores   Range
}

// NewLinkIssuer returns a LinkIssuer that formats links as
// <baseHost>/api/score/<token>.
func NewLinkIssuer(tokens Issuer, baseHost string, scores Range) (*LinkIssuer, error) {
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	if err := scores.Validate(); err != nil {
		return nil, err
	}
	return &LinkIssuer{
		tokens:   tokens,
		baseHost: strings.TrimRight(baseHost, "/"),
		scores:   scores,
	}, nil
}

// Range returns the scores this issuer mints links for.
func (li *LinkIssuer) Range() Range {
	return li.scores
}

// IssueAll mints one independently signed link per allowed score.
// Links from earlier calls stay valid.
func (li *LinkIssuer) IssueAll(subject, campaign string, metadata map[string]any) (map[int]string, error) {
	out := make(map[int]string, li.scores.Max-li.scores.Min+1)
	for _, score := range li.scores.Scores() {
		tok, err := li.tokens.Issue(subject, campaign, score, metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to issue token for score %d: %w", score, err)
		}
		out[score] = li.baseHost + "/" + ScorePath + "/" + tok
	}
	return out, nil
}

// TokenFromURL returns the token segment of a score link.
func TokenFromURL(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("failed to parse link: %w", err)
	}
	prefix := "/" + ScorePath + "/"
	idx := strings.LastIndex(u.Path, prefix)
	if idx < 0 {
		return "", errors.New("link is not a score link")
	}
	tok := u.Path[idx+len(prefix):]
	if tok == "" || strings.Contains(tok, "/") {
		return "", errors.New("link has no token")
	}
	return tok, nil
}
