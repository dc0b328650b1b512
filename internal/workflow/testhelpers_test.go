package workflow

import (
	"context"
	"io"
	"sync"
	"time"

	"rationale/internal/api"
)

// scriptedService replays a fixed sequence of job responses; the last one
// repeats once the script runs out.
type scriptedService struct {
	mu        sync.Mutex
	responses []*api.Job
	jobCalls  int
	startID   string
	restarted []int
	saved     int
	uploads   []string

	uploadEntered chan struct{}
	uploadRelease chan struct{}
}

func (s *scriptedService) StartAnalysis(ctx context.Context, req api.StartAnalysisRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startID == "" {
		s.startID = "job-1"
	}
	return s.startID, nil
}

func (s *scriptedService) Job(ctx context.Context, jobID string) (*api.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := s.jobCalls
	s.jobCalls++
	if index >= len(s.responses) {
		index = len(s.responses) - 1
	}
	job := *s.responses[index]
	job.Steps = append([]api.Step(nil), s.responses[index].Steps...)
	return &job, nil
}

func (s *scriptedService) RestartStep(ctx context.Context, jobID string, stepNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restarted = append(s.restarted, stepNumber)
	return nil
}

func (s *scriptedService) SaveRationale(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return nil
}

func (s *scriptedService) UploadSigned(ctx context.Context, jobID, filename string, content io.Reader) error {
	if s.uploadEntered != nil {
		close(s.uploadEntered)
		<-s.uploadRelease
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, filename)
	return nil
}

func (s *scriptedService) jobCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobCalls
}

func (s *scriptedService) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// recorderStub keeps snapshots and terminal actions in memory.
type recorderStub struct {
	mu        sync.Mutex
	snapshots map[string]string
	actions   map[string]string
}

func newRecorderStub() *recorderStub {
	return &recorderStub{snapshots: make(map[string]string), actions: make(map[string]string)}
}

func (r *recorderStub) RecordJob(ctx context.Context, job *api.Job, stage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[job.ID] = stage
	return nil
}

func (r *recorderStub) SetTerminalAction(ctx context.Context, jobID, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[jobID] = action
	return nil
}

func (r *recorderStub) TerminalAction(ctx context.Context, jobID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[jobID], nil
}

func (r *recorderStub) action(jobID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[jobID]
}

// eventsRecorder captures workflow events.
type eventsRecorder struct {
	mu       sync.Mutex
	stages   []Stage
	updates  int
	failures []string
}

func (e *eventsRecorder) StageChanged(stage Stage, job *api.Job) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stages = append(e.stages, stage)
}

func (e *eventsRecorder) JobUpdated(job *api.Job) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updates++
}

func (e *eventsRecorder) Failed(job *api.Job, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures = append(e.failures, reason)
}

func (e *eventsRecorder) stageCount(stage Stage) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	count := 0
	for _, s := range e.stages {
		if s == stage {
			count++
		}
	}
	return count
}

func (e *eventsRecorder) lastStage() Stage {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.stages) == 0 {
		return ""
	}
	return e.stages[len(e.stages)-1]
}

// notifierStub counts notification calls.
type notifierStub struct {
	mu        sync.Mutex
	pdfReady  int
	completed int
	signed    int
	failed    int
}

func (n *notifierStub) NotifyPDFReady(ctx context.Context, jobTitle string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pdfReady++
	return nil
}

func (n *notifierStub) NotifyWorkflowCompleted(ctx context.Context, jobTitle, stage string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed++
	return nil
}

func (n *notifierStub) NotifySignedUploaded(ctx context.Context, jobTitle, filename string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.signed++
	return nil
}

func (n *notifierStub) NotifyJobFailed(ctx context.Context, jobTitle, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed++
	return nil
}

func (n *notifierStub) NotifyError(ctx context.Context, err error, context string) error {
	return nil
}

func (n *notifierStub) TestNotification(ctx context.Context) error {
	return nil
}

func (n *notifierStub) pdfReadyCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pdfReady
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func processingJob(id string) *api.Job {
	return &api.Job{
		ID:          id,
		ToolUsed:    "Media Rationale",
		VideoTitle:  "Weekly Wrap",
		Status:      api.StatusProcessing,
		CurrentStep: 7,
		Progress:    40,
		Steps:       mediaSteps(7),
	}
}

func pdfReadyJob(id string, outputs ...string) *api.Job {
	job := &api.Job{
		ID:         id,
		ToolUsed:   "Media Rationale",
		VideoTitle: "Weekly Wrap",
		Status:     api.StatusPDFReady,
		Progress:   100,
		Steps:      mediaSteps(15),
	}
	step := &job.Steps[pdfStepNumber-1]
	step.OutputFiles = append(step.OutputFiles, outputs...)
	return job
}

// mediaSteps builds 14 steps where steps below current are success, the
// current one running, the rest pending.
func mediaSteps(current int) []api.Step {
	steps := make([]api.Step, mediaStepCount)
	for i := range steps {
		number := i + 1
		status := api.StepPending
		switch {
		case number < current:
			status = api.StepSuccess
		case number == current:
			status = api.StepRunning
		}
		steps[i] = api.Step{StepNumber: number, Name: "step", Status: status}
	}
	return steps
}
