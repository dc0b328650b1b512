package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rationale/internal/api"
	"rationale/internal/config"
	"rationale/internal/history"
	"rationale/internal/logging"
	"rationale/internal/notifications"
)

const manualStepCount = 6

// manualJobPrefix marks client-assigned ids so they can never be mistaken
// for server ids.
const manualJobPrefix = "MANUAL-"

var manualStepNames = [manualStepCount]string{
	"Create Structured CSV",
	"Map Master File",
	"Fetch CMP",
	"Generate Charts",
	"Generate PDF",
	"Save & Log",
}

// Stock is one stock entry of a manual submission.
type Stock struct {
	Name     string
	Time     string
	Analysis string
}

// Submission carries the manual rationale input fields.
type Submission struct {
	PlatformName string
	PlatformID   string
	Date         string
	Stocks       []Stock
}

// Validate checks required fields in input order and reports the first one
// missing. Nothing is submitted when validation fails.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.PlatformName) == "" {
		return fmt.Errorf("platform name is required")
	}
	if strings.TrimSpace(s.PlatformID) == "" {
		return fmt.Errorf("platform id is required")
	}
	if strings.TrimSpace(s.Date) == "" {
		return fmt.Errorf("date is required")
	}
	if len(s.Stocks) == 0 {
		return fmt.Errorf("at least one stock entry is required")
	}
	for i, stock := range s.Stocks {
		if strings.TrimSpace(stock.Name) == "" {
			return fmt.Errorf("stock %d: name is required", i+1)
		}
		if strings.TrimSpace(stock.Time) == "" {
			return fmt.Errorf("stock %d: time is required", i+1)
		}
		if strings.TrimSpace(stock.Analysis) == "" {
			return fmt.Errorf("stock %d: analysis is required", i+1)
		}
	}
	return nil
}

// Manual simulates the 6-step manual rationale pipeline locally. Steps 1-5
// run with a configurable delay; step 6 is driven by the terminal action.
type Manual struct {
	notifier  notifications.Service
	history   Recorder
	events    Events
	logger    *slog.Logger
	stepDelay time.Duration

	mu         sync.Mutex
	jobID      string
	stage      Stage
	steps      []api.Step
	submission Submission
	uploading  bool
}

// ManualOption configures optional Manual behavior.
type ManualOption func(*Manual)

// WithManualNotifier overrides the notification service (used in tests).
func WithManualNotifier(notifier notifications.Service) ManualOption {
	return func(m *Manual) { m.notifier = notifier }
}

// WithManualRecorder attaches a history recorder.
func WithManualRecorder(recorder Recorder) ManualOption {
	return func(m *Manual) { m.history = recorder }
}

// WithManualEvents attaches an event sink.
func WithManualEvents(events Events) ManualOption {
	return func(m *Manual) { m.events = events }
}

// WithStepDelay overrides the per-step delay (used in tests).
func WithStepDelay(delay time.Duration) ManualOption {
	return func(m *Manual) { m.stepDelay = delay }
}

// NewManual constructs a manual workflow controller.
func NewManual(cfg *config.Config, logger *slog.Logger, opts ...ManualOption) *Manual {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manual{
		notifier:  notifications.NewService(cfg),
		events:    NopEvents{},
		logger:    logging.NewComponentLogger(logger, "workflow"),
		stepDelay: time.Duration(cfg.Workflow.ManualStepDelayMS) * time.Millisecond,
		stage:     StageInput,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stage returns the current workflow stage.
func (m *Manual) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// JobID returns the client-assigned job id.
func (m *Manual) JobID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobID
}

// Steps returns a copy of the current step list.
func (m *Manual) Steps() []api.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	steps := make([]api.Step, len(m.steps))
	copy(steps, m.steps)
	return steps
}

// Run validates the submission and executes steps 1-5, ending in pdf-preview.
// The returned id carries the MANUAL- prefix.
func (m *Manual) Run(ctx context.Context, sub Submission) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	jobID := manualJobPrefix + uuid.NewString()
	m.mu.Lock()
	m.jobID = jobID
	m.submission = sub
	m.steps = newManualSteps()
	m.stage = StageProcessing
	m.uploading = false
	m.mu.Unlock()

	m.logger.Info("manual run started",
		slog.String(logging.FieldJobID, jobID),
		slog.String("platform", sub.PlatformName))
	m.events.StageChanged(StageProcessing, m.snapshot())

	if err := m.runSteps(ctx, 1); err != nil {
		return jobID, err
	}
	return jobID, nil
}

// runSteps advances steps from..5 and enters pdf-preview.
func (m *Manual) runSteps(ctx context.Context, from int) error {
	for n := from; n < manualStepCount; n++ {
		if err := m.advanceStep(ctx, n); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.stage = StagePDFPreview
	m.mu.Unlock()
	job := m.snapshot()
	m.recordSnapshot(ctx, job, StagePDFPreview)
	m.events.StageChanged(StagePDFPreview, job)
	if err := m.notifier.NotifyPDFReady(ctx, m.title()); err != nil {
		m.logger.Warn("pdf-ready notification failed", logging.Error(err))
	}
	return nil
}

func (m *Manual) advanceStep(ctx context.Context, n int) error {
	m.setStep(n, api.StepRunning, "")
	m.events.JobUpdated(m.snapshot())

	timer := time.NewTimer(m.stepDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	m.setStep(n, api.StepSuccess, manualStepNames[n-1]+" completed")
	m.events.JobUpdated(m.snapshot())
	return nil
}

// Save completes step 6 and moves to saved.
func (m *Manual) Save(ctx context.Context) error {
	m.mu.Lock()
	jobID := m.jobID
	stage := m.stage
	m.mu.Unlock()
	if jobID == "" {
		return ErrNoActiveJob
	}
	if stage != StagePDFPreview && stage != StageUploadSigned {
		return fmt.Errorf("cannot save from stage %s", stage)
	}

	m.setStep(manualStepCount, api.StepSuccess, "Rationale saved successfully")
	m.mu.Lock()
	m.stage = StageSaved
	m.mu.Unlock()
	job := m.snapshot()
	m.recordSnapshot(ctx, job, StageSaved)
	m.recordAction(ctx, jobID, history.ActionSave)
	m.events.StageChanged(StageSaved, job)

	if err := m.notifier.NotifyWorkflowCompleted(ctx, m.title(), "saved"); err != nil {
		m.logger.Warn("completion notification failed", logging.Error(err))
	}
	return nil
}

// SaveAndSign moves to upload-signed, awaiting the signed file.
func (m *Manual) SaveAndSign(ctx context.Context) error {
	m.mu.Lock()
	jobID := m.jobID
	stage := m.stage
	m.mu.Unlock()
	if jobID == "" {
		return ErrNoActiveJob
	}
	if stage != StagePDFPreview && stage != StageSaved {
		return fmt.Errorf("cannot sign from stage %s", stage)
	}

	m.setStep(manualStepCount, api.StepRunning, "Awaiting signed PDF")
	m.mu.Lock()
	m.stage = StageUploadSigned
	m.mu.Unlock()
	job := m.snapshot()
	m.recordSnapshot(ctx, job, StageUploadSigned)
	m.recordAction(ctx, jobID, history.ActionSaveAndSign)
	m.events.StageChanged(StageUploadSigned, job)
	return nil
}

// UploadSignedPDF records the uploaded signed file and completes the
// workflow. Overlapping uploads are rejected.
func (m *Manual) UploadSignedPDF(ctx context.Context, filename string) error {
	m.mu.Lock()
	if m.jobID == "" {
		m.mu.Unlock()
		return ErrNoActiveJob
	}
	if m.uploading {
		m.mu.Unlock()
		return ErrUploadInFlight
	}
	m.uploading = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.uploading = false
		m.mu.Unlock()
	}()

	m.setStep(manualStepCount, api.StepSuccess, "Signed PDF uploaded: "+filename)
	m.mu.Lock()
	m.stage = StageCompleted
	m.mu.Unlock()
	job := m.snapshot()
	m.recordSnapshot(ctx, job, StageCompleted)
	m.events.StageChanged(StageCompleted, job)

	if err := m.notifier.NotifySignedUploaded(ctx, m.title(), filename); err != nil {
		m.logger.Warn("signed-upload notification failed", logging.Error(err))
	}
	return nil
}

// RestartFromStep resets steps n..6 to pending and re-runs the simulation
// from step n, then replays the previously chosen terminal action.
func (m *Manual) RestartFromStep(ctx context.Context, stepNumber int) error {
	m.mu.Lock()
	jobID := m.jobID
	m.mu.Unlock()
	if jobID == "" {
		return ErrNoActiveJob
	}
	if stepNumber < 1 || stepNumber > manualStepCount {
		return fmt.Errorf("step %d out of range 1..%d", stepNumber, manualStepCount)
	}

	m.mu.Lock()
	resetSteps(m.steps, stepNumber)
	m.stage = StageProcessing
	m.mu.Unlock()
	m.events.StageChanged(StageProcessing, m.snapshot())

	if stepNumber < manualStepCount {
		if err := m.runSteps(ctx, stepNumber); err != nil {
			return err
		}
	} else {
		m.mu.Lock()
		m.stage = StagePDFPreview
		m.mu.Unlock()
		m.events.StageChanged(StagePDFPreview, m.snapshot())
	}

	replay := ""
	if m.history != nil {
		action, err := m.history.TerminalAction(ctx, jobID)
		if err != nil {
			m.logger.Warn("reading terminal action failed", logging.Error(err))
		} else {
			replay = action
		}
	}
	switch replay {
	case history.ActionSave:
		return m.Save(ctx)
	case history.ActionSaveAndSign:
		return m.SaveAndSign(ctx)
	}
	return nil
}

// Reset abandons the current run and returns to input.
func (m *Manual) Reset() {
	m.mu.Lock()
	m.jobID = ""
	m.stage = StageInput
	m.steps = nil
	m.submission = Submission{}
	m.uploading = false
	m.mu.Unlock()
}

func (m *Manual) setStep(n int, status, message string) {
	now := time.Now().UTC().Format(time.RFC3339)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.steps {
		if m.steps[i].StepNumber != n {
			continue
		}
		m.steps[i].Status = status
		m.steps[i].Message = message
		switch status {
		case api.StepRunning:
			m.steps[i].StartedAt = now
			m.steps[i].EndedAt = ""
		case api.StepSuccess, api.StepFailed:
			if m.steps[i].StartedAt == "" {
				m.steps[i].StartedAt = now
			}
			m.steps[i].EndedAt = now
		}
		return
	}
}

// snapshot renders the simulated run as a job record for display and history.
func (m *Manual) snapshot() *api.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	steps := make([]api.Step, len(m.steps))
	copy(steps, m.steps)

	completed := 0
	current := 0
	for _, step := range steps {
		if step.Status == api.StepSuccess {
			completed++
		}
		if step.Status == api.StepRunning {
			current = step.StepNumber
		}
	}
	if current == 0 && completed < len(steps) {
		current = completed + 1
	}

	return &api.Job{
		ID:          m.jobID,
		ToolUsed:    "Manual Rationale",
		VideoTitle:  strings.TrimSpace(m.submission.PlatformName + " " + m.submission.Date),
		ChannelName: m.submission.PlatformName,
		Status:      manualStatus(m.stage),
		CurrentStep: current,
		Progress:    completed * 100 / manualStepCount,
		Steps:       steps,
	}
}

func manualStatus(stage Stage) string {
	switch stage {
	case StagePDFPreview, StageUploadSigned:
		return api.StatusPDFReady
	case StageSaved:
		return api.StatusSigned
	case StageCompleted:
		return api.StatusCompleted
	case StageInput:
		return api.StatusPending
	default:
		return api.StatusProcessing
	}
}

func (m *Manual) title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return strings.TrimSpace(m.submission.PlatformName + " " + m.submission.Date)
}

func (m *Manual) recordSnapshot(ctx context.Context, job *api.Job, stage Stage) {
	if m.history == nil || job == nil {
		return
	}
	if err := m.history.RecordJob(ctx, job, string(stage)); err != nil {
		m.logger.Warn("recording job snapshot failed", logging.Error(err))
	}
}

func (m *Manual) recordAction(ctx context.Context, jobID, action string) {
	if m.history == nil {
		return
	}
	if err := m.history.SetTerminalAction(ctx, jobID, action); err != nil {
		m.logger.Warn("recording terminal action failed", logging.Error(err))
	}
}

func newManualSteps() []api.Step {
	steps := make([]api.Step, manualStepCount)
	for i := range steps {
		steps[i] = api.Step{
			StepNumber: i + 1,
			Name:       manualStepNames[i],
			Status:     api.StepPending,
		}
	}
	return steps
}
