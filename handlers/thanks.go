// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
)

var thanksTemplate = template.Must(template.New("thanks").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Thank you</title>
</head>
<body>
<main>
{{if .Used}}
<h1>Already received</h1>
<p>We already have your answer{{if .HasScore}} of <strong>{{.Score}}</strong>{{end}}. Thanks again!</p>
{{else}}
<h1>Thank you!</h1>
{{if .HasScore}}<p>Your score of <strong>{{.Score}}</strong> has been recorded.</p>{{else}}<p>Your feedback has been recorded.</p>{{end}}
{{end}}
</main>
</body>
</html>
`))

type thanksPage struct {
	Score    int
	HasScore bool
	Used     bool
	Campaign string
}

// Thanks handles GET /thanks
func Thanks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := thanksPage{
		Used:     q.Get("used") == "true",
		Campaign: q.Get("campaign"),
	}
	if score, err := strconv.Atoi(q.Get("score")); err == nil {
		page.Score = score
		page.HasScore = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := thanksTemplate.Execute(w, page); err != nil {
		slog.Error("failed to render thanks page", "error", err)
	}
}
