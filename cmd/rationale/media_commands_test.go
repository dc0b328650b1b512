package main

import (
	"context"
	"net/http"
	"testing"

	"rationale/internal/api"
	"rationale/internal/history"
	"rationale/internal/testsupport"
)

func TestMediaSaveSkipsHistoryForJobWithoutID(t *testing.T) {
	server := testsupport.NewAPIServer(t,
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body:   api.LoginResult{AccessToken: "token-123", User: api.User{Email: "priya@example.com"}},
		},
		testsupport.JSONHandler{
			Method: http.MethodGet,
			Path:   "/api/v1/media-rationale/job/job-1",
			Body: map[string]any{
				"success": true,
				"job":     map[string]any{"status": api.StatusPDFReady, "progress": 100},
			},
		},
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/saved-rationale/save",
			Body:   map[string]bool{"success": true},
		},
	)
	env := setupCLITestEnv(t, server.URL)

	if _, _, err := runCLI(t, env.configPath, "login", "-e", "priya@example.com", "-p", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	stdout, _, err := runCLI(t, env.configPath, "media", "save", "job-1")
	if err != nil {
		t.Fatalf("media save: %v", err)
	}
	requireContains(t, stdout, "Rationale saved successfully")

	// A job payload missing its id must not leave an empty-keyed history row.
	store := testsupport.MustOpenHistory(t, env.cfg)
	records, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestMediaSaveRecordsTerminalAction(t *testing.T) {
	server := testsupport.NewAPIServer(t,
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body:   api.LoginResult{AccessToken: "token-123", User: api.User{Email: "priya@example.com"}},
		},
		testsupport.JSONHandler{
			Method: http.MethodGet,
			Path:   "/api/v1/media-rationale/job/job-1",
			Body: map[string]any{
				"success": true,
				"job":     map[string]any{"id": "job-1", "status": api.StatusPDFReady, "progress": 100},
			},
		},
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/saved-rationale/save",
			Body:   map[string]bool{"success": true},
		},
	)
	env := setupCLITestEnv(t, server.URL)

	if _, _, err := runCLI(t, env.configPath, "login", "-e", "priya@example.com", "-p", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, _, err := runCLI(t, env.configPath, "media", "save", "job-1"); err != nil {
		t.Fatalf("media save: %v", err)
	}

	store := testsupport.MustOpenHistory(t, env.cfg)
	records, err := store.List(context.Background(), history.Filter{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one history record, got %d", len(records))
	}
	if records[0].JobID != "job-1" || records[0].TerminalAction != history.ActionSave {
		t.Fatalf("record = %+v, want job-1 with save action", records[0])
	}
}
