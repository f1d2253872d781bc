// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-score/links"
)

// DefaultCampaign is used for rows without a campaign column value.
const DefaultCampaign = "default"

// Recognised header names, in precedence order.
var (
	emailColumns    = []string{"email", "Email", "teacherEmail"}
	campaignColumns = []string{"campaign", "Campaign", "campaignId"}
)

// Issuer mints a full set of score links for one recipient.
type Issuer interface {
	IssueAll(subject, campaign string, metadata map[string]any) (map[int]string, error)
	Range() links.Range
}

// Summary reports what Generate did.
type Summary struct {
	Rows    int
	Written int
	Skipped int
}

// Generate reads a header-first recipient CSV from r and writes it to w with
// one link column per score. Columns other than email and campaign are
// carried through unchanged and embedded in every token as metadata.
func Generate(r io.Reader, w io.Writer, issuer Issuer) (Summary, error) {
	var sum Summary

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return sum, errors.New("input has no header row")
	}
	if err != nil {
		return sum, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	if !hasAny(index, emailColumns) {
		return sum, fmt.Errorf("input needs one of the columns %s", strings.Join(emailColumns, ", "))
	}
	extras := extraColumns(header)

	scores := issuer.Range().Scores()
	cw := csv.NewWriter(w)

	out := []string{"email", "campaign"}
	for _, s := range scores {
		out = append(out, "link_"+strconv.Itoa(s))
	}
	out = append(out, extras...)
	if err := cw.Write(out); err != nil {
		return sum, fmt.Errorf("failed to write header: %w", err)
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("failed to read row %d: %w", sum.Rows+1, err)
		}
		sum.Rows++

		get := func(name string) string {
			if i, ok := index[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		email := strings.TrimSpace(firstValue(get, emailColumns))
		if email == "" {
			slog.Warn("skipping row missing email", "row", sum.Rows)
			sum.Skipped++
			continue
		}
		campaign := strings.TrimSpace(firstValue(get, campaignColumns))
		if campaign == "" {
			campaign = DefaultCampaign
		}

		meta := make(map[string]any, len(extras))
		values := make([]string, len(extras))
		for i, name := range extras {
			values[i] = get(name)
			meta[name] = values[i]
		}

		issued, err := issuer.IssueAll(email, campaign, meta)
		if err != nil {
			return sum, fmt.Errorf("row %d: %w", sum.Rows, err)
		}

		out = out[:0]
		out = append(out, email, campaign)
		for _, s := range scores {
			out = append(out, issued[s])
		}
		out = append(out, values...)
		if err := cw.Write(out); err != nil {
			return sum, fmt.Errorf("failed to write row %d: %w", sum.Rows, err)
		}
		sum.Written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return sum, fmt.Errorf("failed to flush output: %w", err)
	}
	return sum, nil
}

// OutputPath derives the default output file name for an input file.
func OutputPath(input string) string {
	if out := strings.Replace(input, ".csv", "_with_links.csv", 1); out != input {
		return out
	}
	return input + "_with_links.csv"
}

func firstValue(get func(string) string, names []string) string {
	for _, name := range names {
		if v := get(name); v != "" {
			return v
		}
	}
	return ""
}

func hasAny(index map[string]int, names []string) bool {
	for _, name := range names {
		if _, ok := index[name]; ok {
			return true
		}
	}
	return false
}

// extraColumns returns the header names that are neither email nor campaign
// aliases, first occurrence only, in input order.
func extraColumns(header []string) []string {
	skip := make(map[string]bool, len(emailColumns)+len(campaignColumns))
	for _, name := range emailColumns {
		skip[name] = true
	}
	for _, name := range campaignColumns {
		skip[name] = true
	}

	var extras []string
	for _, name := range header {
		if skip[name] || name == "" {
			continue
		}
		skip[name] = true
		extras = append(extras, name)
	}
	return extras
}
