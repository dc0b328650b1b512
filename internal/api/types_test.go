package api

import (
	"encoding/json"
	"testing"
)

func TestStepUnmarshalAcceptsBothSpellings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "camelCase",
			body: `{"step_number":14,"name":"Generate PDF","status":"success","outputFiles":["report.pdf"],"startedAt":"2026-08-01T10:00:00","endedAt":"2026-08-01T10:01:00"}`,
		},
		{
			name: "snake_case",
			body: `{"step_number":14,"name":"Generate PDF","status":"success","output_files":["report.pdf"],"started_at":"2026-08-01T10:00:00","ended_at":"2026-08-01T10:01:00"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var step Step
			if err := json.Unmarshal([]byte(tc.body), &step); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if step.StepNumber != 14 {
				t.Fatalf("StepNumber = %d, want 14", step.StepNumber)
			}
			if len(step.OutputFiles) != 1 || step.OutputFiles[0] != "report.pdf" {
				t.Fatalf("OutputFiles = %v, want [report.pdf]", step.OutputFiles)
			}
			if step.StartedAt == "" || step.EndedAt == "" {
				t.Fatalf("timestamps not normalized: %q %q", step.StartedAt, step.EndedAt)
			}
		})
	}
}

func TestJobUnmarshalNormalizesSpellings(t *testing.T) {
	body := `{
		"id": "JOB-1",
		"user_id": "u1",
		"tool_used": "Media Rationale",
		"video_title": "Weekly Wrap",
		"youtube_url": "https://youtu.be/x",
		"status": "pdf_ready",
		"current_step": 14,
		"pdf_path": "reports/JOB-1.pdf",
		"steps": [{"step_number":1,"name":"Download Audio","status":"success"}]
	}`
	var job Job
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if job.UserID != "u1" || job.ToolUsed != "Media Rationale" || job.VideoTitle != "Weekly Wrap" {
		t.Fatalf("snake_case fields not normalized: %+v", job)
	}
	if job.CurrentStep != 14 {
		t.Fatalf("CurrentStep = %d, want 14", job.CurrentStep)
	}
	if job.PDFPath != "reports/JOB-1.pdf" {
		t.Fatalf("PDFPath = %q", job.PDFPath)
	}
	if len(job.Steps) != 1 || job.Steps[0].Name != "Download Audio" {
		t.Fatalf("unexpected steps: %+v", job.Steps)
	}
}

func TestJobUnmarshalPrefersCamelCase(t *testing.T) {
	body := `{"id":"J","videoTitle":"camel","video_title":"snake","unsignedPdfPath":"a.pdf","unsigned_pdf_path":"b.pdf"}`
	var job Job
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if job.VideoTitle != "camel" {
		t.Fatalf("VideoTitle = %q, want camel", job.VideoTitle)
	}
	if job.UnsignedPDFPath != "a.pdf" {
		t.Fatalf("UnsignedPDFPath = %q, want a.pdf", job.UnsignedPDFPath)
	}
}

func TestStepByNumber(t *testing.T) {
	job := Job{Steps: []Step{{StepNumber: 1}, {StepNumber: 14, Status: StepSuccess}}}
	if step := job.StepByNumber(14); step == nil || step.Status != StepSuccess {
		t.Fatalf("StepByNumber(14) = %+v", step)
	}
	if step := job.StepByNumber(7); step != nil {
		t.Fatalf("StepByNumber(7) = %+v, want nil", step)
	}
}

func TestUserDisplayName(t *testing.T) {
	user := User{FirstName: "Priya", LastName: "Nair", Email: "priya@example.com"}
	if got := user.DisplayName(); got != "Priya Nair" {
		t.Fatalf("DisplayName = %q", got)
	}
	anon := User{Email: "ops@example.com"}
	if got := anon.DisplayName(); got != "ops@example.com" {
		t.Fatalf("DisplayName fallback = %q", got)
	}
}
