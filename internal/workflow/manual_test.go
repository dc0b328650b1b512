package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"rationale/internal/api"
	"rationale/internal/config"
	"rationale/internal/history"
)

func newTestManual(t *testing.T) (*Manual, *eventsRecorder, *notifierStub, *recorderStub) {
	t.Helper()
	cfg := config.Default()
	events := &eventsRecorder{}
	notifier := &notifierStub{}
	recorder := newRecorderStub()
	m := NewManual(&cfg, nil,
		WithManualEvents(events),
		WithManualNotifier(notifier),
		WithManualRecorder(recorder),
		WithStepDelay(time.Millisecond),
	)
	return m, events, notifier, recorder
}

func validSubmission() Submission {
	return Submission{
		PlatformName: "YouTube",
		PlatformID:   "@demo",
		Date:         "2025-01-01",
		Stocks: []Stock{
			{Name: "Infosys", Time: "10:00", Analysis: "buy"},
		},
	}
}

func TestSubmissionValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantErr string
	}{
		{"missing platform name", func(s *Submission) { s.PlatformName = " " }, "platform name"},
		{"missing platform id", func(s *Submission) { s.PlatformID = "" }, "platform id"},
		{"missing date", func(s *Submission) { s.Date = "" }, "date"},
		{"no stocks", func(s *Submission) { s.Stocks = nil }, "stock"},
		{"missing stock name", func(s *Submission) { s.Stocks[0].Name = "" }, "stock 1: name"},
		{"missing stock time", func(s *Submission) { s.Stocks[0].Time = "" }, "stock 1: time"},
		{"missing stock analysis", func(s *Submission) { s.Stocks[0].Analysis = "" }, "stock 1: analysis"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			err := sub.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error naming %q, got %q", tc.wantErr, err)
			}
		})
	}

	if err := validSubmission().Validate(); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
}

func TestManualRunRejectsInvalidSubmission(t *testing.T) {
	m, events, _, _ := newTestManual(t)
	sub := validSubmission()
	sub.Date = ""

	if _, err := m.Run(context.Background(), sub); err == nil {
		t.Fatal("expected validation error before any work")
	}
	if m.Stage() != StageInput {
		t.Fatalf("stage must stay input, got %s", m.Stage())
	}
	if len(events.stages) != 0 {
		t.Fatalf("no events expected, got %v", events.stages)
	}
}

func TestManualEndToEndSave(t *testing.T) {
	m, events, notifier, recorder := newTestManual(t)
	ctx := context.Background()

	jobID, err := m.Run(ctx, validSubmission())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(jobID, "MANUAL-") {
		t.Fatalf("client job id must carry the MANUAL- prefix, got %q", jobID)
	}
	if m.Stage() != StagePDFPreview {
		t.Fatalf("expected pdf-preview after run, got %s", m.Stage())
	}

	steps := m.Steps()
	for _, step := range steps[:5] {
		if step.Status != api.StepSuccess {
			t.Fatalf("step %d: expected success, got %s", step.StepNumber, step.Status)
		}
		if step.StartedAt == "" || step.EndedAt == "" {
			t.Fatalf("step %d missing timestamps: %+v", step.StepNumber, step)
		}
	}
	if steps[5].Status != api.StepPending {
		t.Fatalf("step 6 must stay pending until save, got %s", steps[5].Status)
	}
	if notifier.pdfReadyCount() != 1 {
		t.Fatalf("expected one pdf-ready notification, got %d", notifier.pdfReadyCount())
	}

	if err := m.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if m.Stage() != StageSaved {
		t.Fatalf("expected saved stage, got %s", m.Stage())
	}
	final := m.Steps()[5]
	if final.Status != api.StepSuccess {
		t.Fatalf("step 6: expected success, got %s", final.Status)
	}
	if !strings.Contains(final.Message, "saved") {
		t.Fatalf("step 6 message must mention saved, got %q", final.Message)
	}
	if recorder.action(jobID) != history.ActionSave {
		t.Fatalf("expected recorded save action, got %q", recorder.action(jobID))
	}
	if events.lastStage() != StageSaved {
		t.Fatalf("expected saved stage event, got %s", events.lastStage())
	}
}

func TestManualSaveAndSignThenUpload(t *testing.T) {
	m, _, notifier, recorder := newTestManual(t)
	ctx := context.Background()

	jobID, err := m.Run(ctx, validSubmission())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.SaveAndSign(ctx); err != nil {
		t.Fatalf("save and sign: %v", err)
	}
	if m.Stage() != StageUploadSigned {
		t.Fatalf("expected upload-signed stage, got %s", m.Stage())
	}
	if recorder.action(jobID) != history.ActionSaveAndSign {
		t.Fatalf("expected recorded sign action, got %q", recorder.action(jobID))
	}
	if got := m.Steps()[5].Status; got != api.StepRunning {
		t.Fatalf("step 6 must show running while awaiting the file, got %s", got)
	}

	if err := m.UploadSignedPDF(ctx, "wrap-signed.pdf"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if m.Stage() != StageCompleted {
		t.Fatalf("expected completed stage, got %s", m.Stage())
	}
	final := m.Steps()[5]
	if final.Status != api.StepSuccess || !strings.Contains(final.Message, "wrap-signed.pdf") {
		t.Fatalf("step 6 must record the uploaded file, got %+v", final)
	}
	if notifier.signed != 1 {
		t.Fatalf("expected one signed notification, got %d", notifier.signed)
	}
}

func TestManualRestartBoundsAndReplay(t *testing.T) {
	m, _, _, _ := newTestManual(t)
	ctx := context.Background()

	if _, err := m.Run(ctx, validSubmission()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := m.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, n := range []int{0, 7} {
		if err := m.RestartFromStep(ctx, n); err == nil {
			t.Fatalf("expected out-of-range error for step %d", n)
		}
	}

	if err := m.RestartFromStep(ctx, 4); err != nil {
		t.Fatalf("restart: %v", err)
	}

	// Steps 1-3 untouched, 4-6 re-ran, and the recorded save action replayed.
	if m.Stage() != StageSaved {
		t.Fatalf("expected replayed save to land in saved, got %s", m.Stage())
	}
	for _, step := range m.Steps() {
		if step.StepNumber == 6 {
			if !strings.Contains(step.Message, "saved") {
				t.Fatalf("step 6 message must mention saved after replay, got %q", step.Message)
			}
			continue
		}
		if step.Status != api.StepSuccess {
			t.Fatalf("step %d: expected success after replay, got %s", step.StepNumber, step.Status)
		}
	}
}

func TestManualResetReturnsToInput(t *testing.T) {
	m, _, _, _ := newTestManual(t)
	if _, err := m.Run(context.Background(), validSubmission()); err != nil {
		t.Fatalf("run: %v", err)
	}
	m.Reset()
	if m.Stage() != StageInput {
		t.Fatalf("expected input after reset, got %s", m.Stage())
	}
	if m.JobID() != "" {
		t.Fatalf("job id must clear on reset, got %q", m.JobID())
	}
	if len(m.Steps()) != 0 {
		t.Fatal("steps must clear on reset")
	}
}
