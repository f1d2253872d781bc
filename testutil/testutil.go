// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-score/auth"
	"github.com/danielhkuo/quickly-score/cliparse"
	"github.com/danielhkuo/quickly-score/db"
	"github.com/danielhkuo/quickly-score/links"
	"github.com/danielhkuo/quickly-score/models"
	"github.com/danielhkuo/quickly-score/token"
)

// TestDBURLEnv selects a PostgreSQL test database instead of a temp SQLite file.
const TestDBURLEnv = "TEST_DATABASE_URL"

const (
	TestSigningKey  = "test-signing-key"
	TestAdminAPIKey = "test-admin-key"
	TestIPSalt      = "test-ip-salt"
)

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	var conn *sql.DB
	var err error
	if url := os.Getenv(TestDBURLEnv); url != "" {
		conn, err = db.Open(db.TypePostgres, url)
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
		// Clean up tables before each test
		if _, err := conn.Exec(`DROP TABLE IF EXISTS nps_score CASCADE`); err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
	} else {
		path := filepath.Join(t.TempDir(), "test.db")
		conn, err = db.Open(db.TypeSQLite, "file:"+path+"?_pragma=busy_timeout(5000)")
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "file:test.db",
		DatabaseType: db.TypeSQLite,
		AdminAPIKey:  TestAdminAPIKey,
		IPHashSalt:   TestIPSalt,
		LinkConfig: cliparse.LinkConfig{
			Environment: cliparse.EnvDevelopment,
			SigningKey:  TestSigningKey,
			AppHost:     "http://localhost:3318",
			ScoreMin:    links.DefaultRange.Min,
			ScoreMax:    links.DefaultRange.Max,
		},
	}
}

// NewTestCodec returns a codec using TestSigningKey
func NewTestCodec(t *testing.T) *token.Codec {
	t.Helper()

	codec, err := token.NewCodec([]byte(TestSigningKey))
	if err != nil {
		t.Fatalf("Failed to create codec: %v", err)
	}
	return codec
}

// InsertTestEvent stores a recorded score directly and returns it
func InsertTestEvent(t *testing.T, conn *sql.DB, campaign string, score int, clickedAt time.Time) models.ScoreEvent {
	t.Helper()

	id, _ := auth.GenerateID(16)
	tok, _ := auth.GenerateID(24)
	ip := auth.HashIP("192.0.2.1", TestIPSalt)
	ev := models.ScoreEvent{
		ID:        id,
		Token:     tok,
		Email:     "teacher@example.com",
		Campaign:  campaign,
		Score:     score,
		Meta:      json.RawMessage(`{"school":"HighSchool1"}`),
		IPHash:    &ip,
		Source:    models.SourceEmail,
		ClickedAt: clickedAt.UTC().Truncate(time.Millisecond),
	}

	created, err := db.NewStore(conn).CreateIfAbsent(t.Context(), ev)
	if err != nil || !created {
		t.Fatalf("Failed to create test event: created=%v err=%v", created, err)
	}

	return ev
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
