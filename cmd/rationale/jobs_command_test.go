package main

import (
	"context"
	"strings"
	"testing"

	"rationale/internal/api"
	"rationale/internal/testsupport"
	"rationale/internal/workflow"
)

func seedHistory(t *testing.T, env *cliTestEnv, jobs ...*api.Job) {
	t.Helper()
	store := testsupport.MustOpenHistory(t, env.cfg)
	for _, job := range jobs {
		if err := store.RecordJob(context.Background(), job, string(workflow.StageForStatus(job.Status))); err != nil {
			t.Fatalf("record job %s: %v", job.ID, err)
		}
	}
}

func TestJobsListsHistoryOffline(t *testing.T) {
	env := setupCLITestEnv(t, "")
	seedHistory(t, env,
		&api.Job{ID: "job-1", ToolUsed: "Media Rationale", VideoTitle: "Quarterly Outlook", Status: api.StatusProcessing, CurrentStep: 7, Progress: 40},
		&api.Job{ID: "job-2", ToolUsed: "Manual Rationale", VideoTitle: "Budget Review", Status: api.StatusCompleted, CurrentStep: 14, Progress: 100},
	)

	stdout, _, err := runCLI(t, env.configPath, "jobs")
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	requireContains(t, stdout, "job-1")
	requireContains(t, stdout, "job-2")
	requireContains(t, stdout, "Quarterly Outlook")
	// The dashboard vocabulary shows processing jobs as running.
	requireContains(t, stdout, "running")
}

func TestJobsFilterByStatus(t *testing.T) {
	env := setupCLITestEnv(t, "")
	seedHistory(t, env,
		&api.Job{ID: "job-1", VideoTitle: "Quarterly Outlook", Status: api.StatusProcessing},
		&api.Job{ID: "job-2", VideoTitle: "Budget Review", Status: api.StatusCompleted},
	)

	stdout, _, err := runCLI(t, env.configPath, "jobs", "--status", "completed")
	if err != nil {
		t.Fatalf("jobs --status: %v", err)
	}
	requireContains(t, stdout, "job-2")
	if strings.Contains(stdout, "job-1") {
		t.Fatal("expected job-1 to be filtered out")
	}
}

func TestJobsJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t, "")
	seedHistory(t, env,
		&api.Job{ID: "job-1", VideoTitle: "Quarterly Outlook", Status: api.StatusPDFReady, Progress: 100},
	)

	stdout, _, err := runCLI(t, env.configPath, "jobs", "--json")
	if err != nil {
		t.Fatalf("jobs --json: %v", err)
	}
	requireContains(t, stdout, `"JobID": "job-1"`)
}
