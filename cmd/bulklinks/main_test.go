// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-score/links"
	"github.com/danielhkuo/quickly-score/token"
)

func TestRun(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EMAIL_SIGNING_KEY", "")
	t.Setenv("SCORE_MIN", "")
	t.Setenv("SCORE_MAX", "")

	dir := t.TempDir()
	input := filepath.Join(dir, "teachers.csv")
	require.NoError(t, os.WriteFile(input, []byte("email,campaign\na@example.com,fall\n,fall\n"), 0o600))

	var stdout bytes.Buffer
	err := run([]string{"-signing-key", "cli-key", "-host", "https://nps.example.com", input}, &stdout)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "generated links for 1 rows")
	assert.Contains(t, stdout.String(), "Skipped 1 rows")

	f, err := os.Open(filepath.Join(dir, "teachers_with_links.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	tok, err := links.TokenFromURL(records[1][2])
	require.NoError(t, err)
	codec, err := token.NewCodec([]byte("cli-key"))
	require.NoError(t, err)
	p, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Score)
}

func TestRun_Errors(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("EMAIL_SIGNING_KEY", "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing key in production", []string{"in.csv"}},
		{"no input", []string{"-signing-key", "k"}},
		{"too many args", []string{"-signing-key", "k", "a.csv", "b.csv", "c.csv"}},
		{"output equals input", []string{"-signing-key", "k", "a.csv", "a.csv"}},
		{"missing input file", []string{"-signing-key", "k", filepath.Join(t.TempDir(), "nope.csv")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args, &bytes.Buffer{}))
		})
	}
}
