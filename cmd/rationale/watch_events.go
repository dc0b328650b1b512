package main

import (
	"fmt"
	"io"
	"sync"

	"rationale/internal/api"
	"rationale/internal/steps"
	"rationale/internal/workflow"
)

// watchEvents renders workflow progress as status lines while a watch loop
// runs, ringing the terminal bell on stage changes when configured.
type watchEvents struct {
	out      io.Writer
	colorize bool
	bell     bool

	mu       sync.Mutex
	lastStep int
	done     chan workflow.Stage
	failed   chan string
}

func newWatchEvents(out io.Writer, bell bool) *watchEvents {
	return &watchEvents{
		out:      out,
		colorize: shouldColorize(out),
		bell:     bell,
		done:     make(chan workflow.Stage, 4),
		failed:   make(chan string, 1),
	}
}

func (w *watchEvents) StageChanged(stage workflow.Stage, job *api.Job) {
	w.mu.Lock()
	fmt.Fprintln(w.out, renderStatusLine("Stage", statusInfo, string(stage), w.colorize))
	if w.bell {
		ringBell(w.out)
	}
	w.mu.Unlock()

	switch stage {
	case workflow.StagePDFPreview, workflow.StageSaved, workflow.StageUploadSigned, workflow.StageCompleted:
		select {
		case w.done <- stage:
		default:
		}
	}
}

func (w *watchEvents) JobUpdated(job *api.Job) {
	if job == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, display := range steps.Render(job) {
		if display.Status == api.StepPending {
			continue
		}
		if display.StepNumber <= w.lastStep && display.Status != api.StepRunning {
			continue
		}
		if display.Status == api.StepSuccess && display.StepNumber > w.lastStep {
			w.lastStep = display.StepNumber
			label := fmt.Sprintf("Step %d/%d", display.StepNumber, len(job.Steps))
			fmt.Fprintln(w.out, renderStatusLine(label, stepStatusKind(display.Status), display.Name, w.colorize))
		}
	}
}

func (w *watchEvents) Failed(job *api.Job, reason string) {
	w.mu.Lock()
	fmt.Fprintln(w.out, renderStatusLine("Job", statusError, reason, w.colorize))
	w.mu.Unlock()
	select {
	case w.failed <- reason:
	default:
	}
}
