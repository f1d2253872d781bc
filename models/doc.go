// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - IssueLinksRequest: email, campaign, meta

# Response Types

  - IssueLinksResponse: links keyed by score
  - MetricsResponse: total, byCampaign, distribution, recent
  - ErrorResponse: error, message

# Domain Types

  - ScoreEvent: one recorded click, keyed by its token

ScoreEvent.Meta is the token metadata stored verbatim as JSON. The raw
token is never serialized.
*/
package models
