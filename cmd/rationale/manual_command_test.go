package main

import (
	"strings"
	"testing"
)

func TestManualGenerateSaveRunsOffline(t *testing.T) {
	env := setupCLITestEnv(t, "")

	stdout, _, err := runCLI(t, env.configPath,
		"manual", "generate",
		"--platform", "YouTube",
		"--platform-id", "@financeweekly",
		"--date", "2026-08-29",
		"--stock", "ACME,10:30,Breakout above resistance",
		"--action", "save",
	)
	if err != nil {
		t.Fatalf("manual generate: %v", err)
	}
	requireContains(t, stdout, "reached pdf-preview")
	requireContains(t, stdout, "Rationale saved successfully")

	jobs, _, err := runCLI(t, env.configPath, "jobs")
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	requireContains(t, jobs, "MANUAL-")
	requireContains(t, jobs, "save")
}

func TestManualGenerateValidationFailure(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, env.configPath,
		"manual", "generate",
		"--platform-id", "@financeweekly",
		"--date", "2026-08-29",
		"--stock", "ACME,10:30,Breakout",
	)
	if err == nil {
		t.Fatal("expected validation error without --platform")
	}
	if !strings.Contains(err.Error(), "platform name") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestManualGenerateRejectsMalformedStock(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, env.configPath,
		"manual", "generate",
		"--platform", "YouTube",
		"--platform-id", "@financeweekly",
		"--date", "2026-08-29",
		"--stock", "ACME",
	)
	if err == nil {
		t.Fatal("expected error for malformed stock flag")
	}
	requireContains(t, err.Error(), "expected \"name,time,analysis\"")
}
