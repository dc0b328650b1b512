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

func newTestMedia(t *testing.T, svc *scriptedService) (*Media, *eventsRecorder, *notifierStub, *recorderStub) {
	t.Helper()
	cfg := config.Default()
	cfg.Workflow.PollIntervalMS = 10

	events := &eventsRecorder{}
	notifier := &notifierStub{}
	recorder := newRecorderStub()
	m := NewMedia(svc, &cfg, nil,
		WithEvents(events),
		WithNotifier(notifier),
		WithRecorder(recorder),
	)
	t.Cleanup(m.Stop)
	return m, events, notifier, recorder
}

func TestMediaPollsUntilPDFReady(t *testing.T) {
	svc := &scriptedService{responses: []*api.Job{
		processingJob("job-1"),
		processingJob("job-1"),
		pdfReadyJob("job-1", "report.pdf"),
	}}
	m, events, notifier, _ := newTestMedia(t, svc)

	if err := m.Watch(context.Background(), "job-1"); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !waitFor(2*time.Second, func() bool { return m.Stage() == StagePDFPreview }) {
		t.Fatalf("never reached pdf-preview, stage %s", m.Stage())
	}

	if got := m.PDFPath(); got != "report.pdf" {
		t.Fatalf("expected resolved path report.pdf, got %q", got)
	}
	if count := events.stageCount(StagePDFPreview); count != 1 {
		t.Fatalf("expected one pdf-preview transition, got %d", count)
	}
	if count := notifier.pdfReadyCount(); count != 1 {
		t.Fatalf("expected one pdf-ready notification, got %d", count)
	}

	// The poll loop must have stopped on the terminal tick.
	calls := svc.jobCallCount()
	time.Sleep(60 * time.Millisecond)
	if after := svc.jobCallCount(); after != calls {
		t.Fatalf("poller still running: %d calls grew to %d", calls, after)
	}
}

func TestMediaTickDeduplicatesTransitions(t *testing.T) {
	svc := &scriptedService{responses: []*api.Job{pdfReadyJob("job-1", "report.pdf")}}
	m, events, notifier, _ := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.stage = StageProcessing

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		stop, err := m.tick(ctx)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if !stop {
			t.Fatalf("tick %d: expected terminal stop", i)
		}
	}

	if count := events.stageCount(StagePDFPreview); count != 1 {
		t.Fatalf("expected one transition across repeated ticks, got %d", count)
	}
	if count := notifier.pdfReadyCount(); count != 1 {
		t.Fatalf("expected one notification across repeated ticks, got %d", count)
	}
}

func TestMediaFailedJobStopsPolling(t *testing.T) {
	failed := processingJob("job-1")
	failed.Status = api.StatusFailed
	failed.Steps[6].Status = api.StepFailed
	failed.Steps[6].Message = "transcription failed"

	svc := &scriptedService{responses: []*api.Job{failed}}
	m, events, notifier, _ := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.stage = StageProcessing

	stop, err := m.tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !stop {
		t.Fatal("failed status must stop the poll loop")
	}
	if len(events.failures) != 1 || events.failures[0] != "transcription failed" {
		t.Fatalf("unexpected failure events: %v", events.failures)
	}
	if notifier.failed != 1 {
		t.Fatalf("expected one failure notification, got %d", notifier.failed)
	}
}

func TestMediaUnresolvablePDFKeepsPolling(t *testing.T) {
	svc := &scriptedService{responses: []*api.Job{pdfReadyJob("job-1")}}
	m, events, _, _ := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.stage = StageProcessing

	stop, err := m.tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if stop {
		t.Fatal("unresolvable pdf must keep the poll loop running")
	}
	if count := events.stageCount(StagePDFPreview); count != 0 {
		t.Fatalf("stage must not change on an unresolvable tick, got %d transitions", count)
	}
}

func TestMediaSaveRecordsActionAndStage(t *testing.T) {
	svc := &scriptedService{responses: []*api.Job{pdfReadyJob("job-1", "report.pdf")}}
	m, events, notifier, recorder := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.job = pdfReadyJob("job-1", "report.pdf")
	m.stage = StagePDFPreview

	if err := m.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if m.Stage() != StageSaved {
		t.Fatalf("expected saved stage, got %s", m.Stage())
	}
	if svc.saveCount() != 1 {
		t.Fatalf("expected one save call, got %d", svc.saveCount())
	}
	if recorder.action("job-1") != history.ActionSave {
		t.Fatalf("expected recorded save action, got %q", recorder.action("job-1"))
	}
	if notifier.completed != 1 {
		t.Fatalf("expected one completion notification, got %d", notifier.completed)
	}
	if events.lastStage() != StageSaved {
		t.Fatalf("expected saved stage event, got %s", events.lastStage())
	}
}

func TestMediaSignNowRequiresSavedStage(t *testing.T) {
	svc := &scriptedService{responses: []*api.Job{pdfReadyJob("job-1", "report.pdf")}}
	m, _, _, recorder := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.stage = StagePDFPreview

	if err := m.SignNow(context.Background()); err == nil {
		t.Fatal("expected error signing from pdf-preview")
	}

	m.stage = StageSaved
	if err := m.SignNow(context.Background()); err != nil {
		t.Fatalf("sign now: %v", err)
	}
	if m.Stage() != StageUploadSigned {
		t.Fatalf("expected upload-signed stage, got %s", m.Stage())
	}
	if recorder.action("job-1") != history.ActionSaveAndSign {
		t.Fatalf("expected recorded sign action, got %q", recorder.action("job-1"))
	}
}

func TestMediaUploadSignedRejectsOverlap(t *testing.T) {
	svc := &scriptedService{
		responses:     []*api.Job{pdfReadyJob("job-1", "report.pdf")},
		uploadEntered: make(chan struct{}),
		uploadRelease: make(chan struct{}),
	}
	m, _, notifier, _ := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.stage = StageUploadSigned

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- m.UploadSignedPDF(context.Background(), "wrap-signed.pdf", strings.NewReader("%PDF"))
	}()
	<-svc.uploadEntered

	if err := m.UploadSignedPDF(context.Background(), "again.pdf", strings.NewReader("%PDF")); err != ErrUploadInFlight {
		t.Fatalf("expected ErrUploadInFlight, got %v", err)
	}

	close(svc.uploadRelease)
	if err := <-firstDone; err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if m.Stage() != StageCompleted {
		t.Fatalf("expected completed stage, got %s", m.Stage())
	}
	if notifier.signed != 1 {
		t.Fatalf("expected one signed notification, got %d", notifier.signed)
	}
}

func TestMediaRestartFromStepBounds(t *testing.T) {
	// The scripted server view matches the expected local reset so the poll
	// loop racing this test cannot change the outcome.
	serverView := processingJob("job-1")
	serverView.CurrentStep = 5
	for i := range serverView.Steps {
		switch {
		case serverView.Steps[i].StepNumber < 5:
			serverView.Steps[i].Status = api.StepSuccess
		default:
			serverView.Steps[i].Status = api.StepPending
		}
	}
	svc := &scriptedService{responses: []*api.Job{serverView}}
	m, _, _, _ := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.job = pdfReadyJob("job-1", "report.pdf")
	m.stage = StagePDFPreview

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, n := range []int{0, -1, 15} {
		if err := m.RestartFromStep(ctx, n); err == nil {
			t.Fatalf("expected out-of-range error for step %d", n)
		}
	}

	if err := m.RestartFromStep(ctx, 5); err != nil {
		t.Fatalf("restart: %v", err)
	}
	m.Stop()

	if len(svc.restarted) != 1 || svc.restarted[0] != 5 {
		t.Fatalf("unexpected restart calls: %v", svc.restarted)
	}
	job := m.Job()
	for _, step := range job.Steps {
		switch {
		case step.StepNumber < 5:
			if step.Status != api.StepSuccess {
				t.Fatalf("step %d must stay success, got %s", step.StepNumber, step.Status)
			}
		default:
			if step.Status != api.StepPending || step.Message != "" || step.EndedAt != "" {
				t.Fatalf("step %d not reset: %+v", step.StepNumber, step)
			}
		}
	}
}

func TestMediaRestartReplaysRecordedAction(t *testing.T) {
	svc := &scriptedService{responses: []*api.Job{
		processingJob("job-1"),
		pdfReadyJob("job-1", "report.pdf"),
	}}
	m, _, _, recorder := newTestMedia(t, svc)
	m.jobID = "job-1"
	m.job = pdfReadyJob("job-1", "report.pdf")
	m.stage = StagePDFPreview
	if err := recorder.SetTerminalAction(context.Background(), "job-1", history.ActionSaveAndSign); err != nil {
		t.Fatalf("seed action: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.RestartFromStep(ctx, 10); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if !waitFor(2*time.Second, func() bool { return m.Stage() == StageUploadSigned }) {
		t.Fatalf("expected replayed save-and-sign to reach upload-signed, stage %s", m.Stage())
	}
	if svc.saveCount() != 1 {
		t.Fatalf("expected replay to call save once, got %d", svc.saveCount())
	}
}
