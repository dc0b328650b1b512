package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"rationale/internal/api"
	"rationale/internal/artifact"
	"rationale/internal/config"
	"rationale/internal/history"
	"rationale/internal/logging"
	"rationale/internal/notifications"
	"rationale/internal/polling"
)

// ErrUploadInFlight is returned when a signed upload is attempted while a
// previous upload has not finished.
var ErrUploadInFlight = errors.New("a signed upload is already in progress")

// ErrNoActiveJob is returned by job actions invoked before a job is loaded.
var ErrNoActiveJob = errors.New("no active job")

const mediaStepCount = 14
const pdfStepNumber = 14

// JobService is the slice of the API client the media controller drives.
type JobService interface {
	StartAnalysis(ctx context.Context, req api.StartAnalysisRequest) (string, error)
	Job(ctx context.Context, jobID string) (*api.Job, error)
	RestartStep(ctx context.Context, jobID string, stepNumber int) error
	SaveRationale(ctx context.Context, jobID string) error
	UploadSigned(ctx context.Context, jobID, filename string, content io.Reader) error
}

// Recorder persists job snapshots and the chosen terminal action.
type Recorder interface {
	RecordJob(ctx context.Context, job *api.Job, stage string) error
	SetTerminalAction(ctx context.Context, jobID, action string) error
	TerminalAction(ctx context.Context, jobID string) (string, error)
}

type firedTransition struct {
	path  string
	stage Stage
}

// Media mirrors the server-driven 14-step media pipeline for one job at a
// time. All exported methods are safe for concurrent use with the poll loop.
type Media struct {
	svc      JobService
	poller   *polling.Poller
	notifier notifications.Service
	history  Recorder
	events   Events
	logger   *slog.Logger

	mu           sync.Mutex
	jobID        string
	job          *api.Job
	stage        Stage
	pdfPath      string
	lastFired    firedTransition
	replayAction string
	uploading    bool
}

// MediaOption configures optional Media behavior.
type MediaOption func(*Media)

// WithNotifier overrides the notification service (used in tests).
func WithNotifier(notifier notifications.Service) MediaOption {
	return func(m *Media) { m.notifier = notifier }
}

// WithRecorder attaches a history recorder. Without one, snapshots and
// terminal actions are simply not persisted.
func WithRecorder(recorder Recorder) MediaOption {
	return func(m *Media) { m.history = recorder }
}

// WithEvents attaches an event sink.
func WithEvents(events Events) MediaOption {
	return func(m *Media) { m.events = events }
}

// NewMedia constructs a media workflow controller.
func NewMedia(svc JobService, cfg *config.Config, logger *slog.Logger, opts ...MediaOption) *Media {
	if logger == nil {
		logger = logging.NewNop()
	}
	interval := time.Duration(cfg.Workflow.PollIntervalMS) * time.Millisecond
	m := &Media{
		svc:      svc,
		poller:   polling.New(interval, logger),
		notifier: notifications.NewService(cfg),
		events:   NopEvents{},
		logger:   logging.NewComponentLogger(logger, "workflow"),
		stage:    StageInput,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stage returns the current workflow stage.
func (m *Media) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// JobID returns the active job id, or "" before a job is loaded.
func (m *Media) JobID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobID
}

// Job returns the last polled job snapshot.
func (m *Media) Job() *api.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job
}

// PDFPath returns the resolved server-side PDF path once a terminal stage has
// been reached.
func (m *Media) PDFPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pdfPath
}

// Begin starts a new analysis job and begins polling it.
func (m *Media) Begin(ctx context.Context, req api.StartAnalysisRequest) (string, error) {
	jobID, err := m.svc.StartAnalysis(ctx, req)
	if err != nil {
		return "", fmt.Errorf("start analysis: %w", err)
	}

	m.poller.Stop()
	m.mu.Lock()
	m.resetLocked()
	m.jobID = jobID
	m.stage = StageProcessing
	m.mu.Unlock()

	m.logger.Info("analysis started", slog.String(logging.FieldJobID, jobID))
	m.events.StageChanged(StageProcessing, nil)
	m.poller.Start(ctx, m.tick)
	return jobID, nil
}

// Watch loads an existing job and resumes polling it. The initial stage is
// reconstructed from the server status; the first poll tick then applies any
// terminal transition the job has already reached.
func (m *Media) Watch(ctx context.Context, jobID string) error {
	job, err := m.svc.Job(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", jobID, err)
	}

	stage := StageForStatus(job.Status)
	m.poller.Stop()
	m.mu.Lock()
	m.resetLocked()
	m.jobID = jobID
	m.job = job
	m.stage = stage
	m.mu.Unlock()

	m.recordSnapshot(ctx, job, stage)
	m.events.StageChanged(stage, job)
	m.poller.Start(ctx, m.tick)
	return nil
}

// tick is the poll loop body. Errors are logged by the poller and the loop
// continues; only terminal job states stop it.
func (m *Media) tick(ctx context.Context) (bool, error) {
	m.mu.Lock()
	jobID := m.jobID
	stage := m.stage
	m.mu.Unlock()
	if jobID == "" {
		return true, nil
	}

	job, err := m.svc.Job(ctx, jobID)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	m.job = job
	m.mu.Unlock()

	m.recordSnapshot(ctx, job, stage)
	m.events.JobUpdated(job)

	if job.Status == api.StatusFailed {
		reason := failureReason(job)
		m.logger.Warn("job failed",
			slog.String(logging.FieldJobID, job.ID),
			slog.String("reason", reason))
		m.events.Failed(job, reason)
		if err := m.notifier.NotifyJobFailed(ctx, job.VideoTitle, reason); err != nil {
			m.logger.Warn("failure notification failed", logging.Error(err))
		}
		return true, nil
	}

	if !pdfStepDone(job) {
		return false, nil
	}
	switch job.Status {
	case api.StatusPDFReady, api.StatusSigned, api.StatusCompleted:
	default:
		return false, nil
	}

	path, err := artifact.Resolve(job)
	if err != nil {
		// Ready status without a resolvable path: stay in processing and
		// let a later tick pick the path up.
		m.logger.Warn("pdf not resolvable yet",
			slog.String(logging.FieldJobID, job.ID),
			logging.Error(err))
		return false, nil
	}

	m.applyTerminal(ctx, job, path)
	return true, nil
}

// applyTerminal moves the workflow to the stage implied by the job status.
// The transition and its notification fire at most once per
// (path, target stage) pair.
func (m *Media) applyTerminal(ctx context.Context, job *api.Job, path string) {
	target := StagePDFPreview
	switch job.Status {
	case api.StatusSigned:
		target = StageSaved
	case api.StatusCompleted:
		target = StageCompleted
	}

	m.mu.Lock()
	if m.lastFired == (firedTransition{path: path, stage: target}) {
		m.mu.Unlock()
		return
	}
	m.lastFired = firedTransition{path: path, stage: target}
	m.pdfPath = path
	m.stage = target
	replay := m.replayAction
	m.replayAction = ""
	m.mu.Unlock()

	m.logger.Info("workflow stage changed",
		slog.String(logging.FieldJobID, job.ID),
		slog.String(logging.FieldStage, string(target)),
		slog.String("pdf", path))
	m.recordSnapshot(ctx, job, target)
	m.events.StageChanged(target, job)

	if target != StagePDFPreview {
		return
	}
	if err := m.notifier.NotifyPDFReady(ctx, job.VideoTitle); err != nil {
		m.logger.Warn("pdf-ready notification failed", logging.Error(err))
	}
	if replay != "" {
		if err := m.save(ctx, replay == history.ActionSaveAndSign); err != nil {
			m.logger.Warn("replaying terminal action failed",
				slog.String(logging.FieldJobID, job.ID),
				slog.String("action", replay),
				logging.Error(err))
		}
	}
}

// Save persists the rationale and moves to the saved stage. Polling stops
// first so a stale tick cannot override the user's action.
func (m *Media) Save(ctx context.Context) error {
	m.poller.Stop()
	return m.save(ctx, false)
}

// SaveAndSign persists the rationale and moves to upload-signed, awaiting the
// signed file.
func (m *Media) SaveAndSign(ctx context.Context) error {
	m.poller.Stop()
	return m.save(ctx, true)
}

func (m *Media) save(ctx context.Context, sign bool) error {
	m.mu.Lock()
	jobID := m.jobID
	job := m.job
	m.mu.Unlock()
	if jobID == "" {
		return ErrNoActiveJob
	}

	if err := m.svc.SaveRationale(ctx, jobID); err != nil {
		return fmt.Errorf("save rationale: %w", err)
	}

	action := history.ActionSave
	target := StageSaved
	if sign {
		action = history.ActionSaveAndSign
		target = StageUploadSigned
	}
	m.recordAction(ctx, jobID, action)

	m.mu.Lock()
	m.stage = target
	m.mu.Unlock()
	m.events.StageChanged(target, job)

	if !sign {
		if err := m.notifier.NotifyWorkflowCompleted(ctx, jobTitle(job), "saved"); err != nil {
			m.logger.Warn("completion notification failed", logging.Error(err))
		}
	}
	return nil
}

// SignNow moves a previously saved job to upload-signed without re-saving.
func (m *Media) SignNow(ctx context.Context) error {
	m.mu.Lock()
	jobID := m.jobID
	stage := m.stage
	job := m.job
	m.mu.Unlock()
	if jobID == "" {
		return ErrNoActiveJob
	}
	if stage != StageSaved {
		return fmt.Errorf("cannot sign from stage %s", stage)
	}

	m.recordAction(ctx, jobID, history.ActionSaveAndSign)
	m.mu.Lock()
	m.stage = StageUploadSigned
	m.mu.Unlock()
	m.events.StageChanged(StageUploadSigned, job)
	return nil
}

// UploadSignedPDF uploads the signed file and completes the workflow. A
// second call while an upload is pending is rejected.
func (m *Media) UploadSignedPDF(ctx context.Context, filename string, content io.Reader) error {
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
	jobID := m.jobID
	job := m.job
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.uploading = false
		m.mu.Unlock()
	}()

	if err := m.svc.UploadSigned(ctx, jobID, filename, content); err != nil {
		return fmt.Errorf("upload signed pdf: %w", err)
	}

	m.mu.Lock()
	m.stage = StageCompleted
	m.mu.Unlock()
	m.events.StageChanged(StageCompleted, job)

	if err := m.notifier.NotifySignedUploaded(ctx, jobTitle(job), filename); err != nil {
		m.logger.Warn("signed-upload notification failed", logging.Error(err))
	}
	return nil
}

// RestartFromStep re-runs the pipeline from the given step. Steps n..N reset
// to pending locally, the workflow re-enters processing, and once the PDF is
// ready again the previously chosen terminal action is replayed. With no
// recorded action, the workflow halts at pdf-preview.
func (m *Media) RestartFromStep(ctx context.Context, stepNumber int) error {
	m.mu.Lock()
	jobID := m.jobID
	total := mediaStepCount
	if m.job != nil && len(m.job.Steps) > 0 {
		total = len(m.job.Steps)
	}
	m.mu.Unlock()
	if jobID == "" {
		return ErrNoActiveJob
	}
	if stepNumber < 1 || stepNumber > total {
		return fmt.Errorf("step %d out of range 1..%d", stepNumber, total)
	}

	m.poller.Stop()
	if err := m.svc.RestartStep(ctx, jobID, stepNumber); err != nil {
		return fmt.Errorf("restart from step %d: %w", stepNumber, err)
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

	m.mu.Lock()
	if m.job != nil {
		resetSteps(m.job.Steps, stepNumber)
	}
	m.stage = StageProcessing
	m.replayAction = replay
	m.pdfPath = ""
	m.lastFired = firedTransition{}
	job := m.job
	m.mu.Unlock()

	m.logger.Info("pipeline restarted",
		slog.String(logging.FieldJobID, jobID),
		slog.Int(logging.FieldStep, stepNumber))
	m.events.StageChanged(StageProcessing, job)
	m.poller.Start(ctx, m.tick)
	return nil
}

// Reset abandons the current job view and returns to input. Server data is
// untouched.
func (m *Media) Reset() {
	m.poller.Stop()
	m.mu.Lock()
	m.resetLocked()
	m.mu.Unlock()
}

// Stop cancels polling without changing the stage. Call on view teardown.
func (m *Media) Stop() {
	m.poller.Stop()
}

func (m *Media) resetLocked() {
	m.jobID = ""
	m.job = nil
	m.stage = StageInput
	m.pdfPath = ""
	m.lastFired = firedTransition{}
	m.replayAction = ""
	m.uploading = false
}

func (m *Media) recordSnapshot(ctx context.Context, job *api.Job, stage Stage) {
	if m.history == nil || job == nil {
		return
	}
	if err := m.history.RecordJob(ctx, job, string(stage)); err != nil {
		m.logger.Warn("recording job snapshot failed", logging.Error(err))
	}
}

func (m *Media) recordAction(ctx context.Context, jobID, action string) {
	if m.history == nil {
		return
	}
	if err := m.history.SetTerminalAction(ctx, jobID, action); err != nil {
		m.logger.Warn("recording terminal action failed", logging.Error(err))
	}
}

func pdfStepDone(job *api.Job) bool {
	step := job.StepByNumber(pdfStepNumber)
	return step != nil && step.Status == api.StepSuccess
}

func resetSteps(steps []api.Step, from int) {
	for i := range steps {
		if steps[i].StepNumber < from {
			continue
		}
		steps[i].Status = api.StepPending
		steps[i].Message = ""
		steps[i].StartedAt = ""
		steps[i].EndedAt = ""
	}
}

func failureReason(job *api.Job) string {
	for i := len(job.Steps) - 1; i >= 0; i-- {
		if job.Steps[i].Status == api.StepFailed && job.Steps[i].Message != "" {
			return job.Steps[i].Message
		}
	}
	return "pipeline failed"
}

func jobTitle(job *api.Job) string {
	if job == nil {
		return ""
	}
	return job.VideoTitle
}
