package main

import (
	"net/http"
	"testing"

	"rationale/internal/api"
	"rationale/internal/testsupport"
)

func loginForTest(t *testing.T, env *cliTestEnv) {
	t.Helper()
	if _, _, err := runCLI(t, env.configPath, "login", "-e", "admin@example.com", "-p", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestDashboardRendersStatsAndJobs(t *testing.T) {
	server := testsupport.NewAPIServer(t,
		testsupport.JSONHandler{
			Method: http.MethodPost,
			Path:   "/api/v1/auth/login",
			Body:   api.LoginResult{AccessToken: "token-123", User: api.User{Email: "admin@example.com"}},
		},
		testsupport.JSONHandler{
			Method: http.MethodGet,
			Path:   "/api/v1/dashboard",
			Body: api.DashboardPage{
				Stats: api.DashboardStats{TotalJobs: 12, CompletedJobs: 9, RunningJobs: 1, PendingJobs: 1, FailedJobs: 1},
				Jobs: []api.DashboardJob{
					{ID: "job-1", Title: "Quarterly Outlook", ChannelName: "Finance Weekly", Status: "running", Progress: 40},
					{ID: "job-2", Title: "Budget Review", ChannelName: "Macro Desk", Status: "completed", Progress: 100},
				},
				Total: 12,
			},
		},
	)
	env := setupCLITestEnv(t, server.URL)
	loginForTest(t, env)

	stdout, _, err := runCLI(t, env.configPath, "dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	requireContains(t, stdout, "Total jobs")
	requireContains(t, stdout, "12")
	requireContains(t, stdout, "Quarterly Outlook")
	requireContains(t, stdout, "Finance Weekly")
	requireContains(t, stdout, "Showing 2 of 12 jobs")
}

func TestDashboardRequiresLogin(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, env.configPath, "dashboard")
	if err == nil {
		t.Fatal("expected dashboard without a session to fail")
	}
	requireContains(t, err.Error(), "not logged in")
}
