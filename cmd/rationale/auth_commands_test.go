package main

import (
	"net/http"
	"testing"

	"rationale/internal/api"
	"rationale/internal/testsupport"
)

func TestLoginPersistsSession(t *testing.T) {
	server := testsupport.NewAPIServer(t, testsupport.JSONHandler{
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body: api.LoginResult{
			AccessToken: "token-123",
			User: api.User{
				ID:        "u1",
				FirstName: "Priya",
				LastName:  "Nair",
				Email:     "priya@example.com",
				Role:      "admin",
			},
		},
	})
	env := setupCLITestEnv(t, server.URL)

	stdout, _, err := runCLI(t, env.configPath, "login", "-e", "priya@example.com", "-p", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	requireContains(t, stdout, "Logged in as Priya Nair (admin)")

	stdout, _, err = runCLI(t, env.configPath, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	requireContains(t, stdout, "Priya Nair <priya@example.com>")
	requireContains(t, stdout, "Role:  admin")
}

func TestLoginRequiresEmail(t *testing.T) {
	env := setupCLITestEnv(t, "")

	if _, _, err := runCLI(t, env.configPath, "login", "-p", "secret"); err == nil {
		t.Fatal("expected login without --email to fail")
	}
}

func TestWhoamiWithoutSession(t *testing.T) {
	env := setupCLITestEnv(t, "")

	stdout, _, err := runCLI(t, env.configPath, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	requireContains(t, stdout, "Not logged in")
}

func TestLogoutClearsSession(t *testing.T) {
	server := testsupport.NewAPIServer(t,
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body:   api.LoginResult{AccessToken: "token-123", User: api.User{Email: "priya@example.com"}},
		},
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/logout",
			Body:   map[string]bool{"success": true},
		},
	)
	env := setupCLITestEnv(t, server.URL)

	if _, _, err := runCLI(t, env.configPath, "login", "-e", "priya@example.com", "-p", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	stdout, _, err := runCLI(t, env.configPath, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	requireContains(t, stdout, "Logged out")

	stdout, _, err = runCLI(t, env.configPath, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	requireContains(t, stdout, "Not logged in")
}
