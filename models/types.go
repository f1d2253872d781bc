package models

import (
	"encoding/json"
	"time"
)

// SourceEmail marks events that arrived through an emailed score link.
const SourceEmail = "email"

// Request types

type IssueLinksRequest struct {
	Email    string         `json:"email"`
	Campaign string         `json:"campaign"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Response types

// score -> link
type IssueLinksResponse struct {
	Links map[int]string `json:"links"`
}

type MetricsResponse struct {
	Total        int             `json:"total"`
	ByCampaign   []CampaignStats `json:"byCampaign"`
	Distribution []ScoreCount    `json:"distribution"`
	Recent       []RecentScore   `json:"recent"`
}

type CampaignStats struct {
	Campaign string   `json:"campaign"`
	Count    int      `json:"count"`
	Average  *float64 `json:"average"`
}

type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

type RecentScore struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Campaign  string    `json:"campaignId"`
	ClickedAt time.Time `json:"clickedAt"`
	Source    string    `json:"source"`
}

// Domain types

// ScoreEvent is one recorded click. The token is its unique key.
type ScoreEvent struct {
	ID        string          `json:"id"`
	Token     string          `json:"-"`
	Email     string          `json:"email"`
	Campaign  string          `json:"campaign"`
	Score     int             `json:"score"`
	Meta      json.RawMessage `json:"meta"`
	IPHash    *string         `json:"ip_hash,omitempty"`
	UserAgent *string         `json:"user_agent,omitempty"`
	Source    string          `json:"source"`
	ClickedAt time.Time       `json:"clicked_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
