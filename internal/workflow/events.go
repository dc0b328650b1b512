package workflow

import "rationale/internal/api"

// Events receives workflow side effects for display. Implementations must be
// fast; they are called from the poll loop.
type Events interface {
	// StageChanged fires once per applied stage transition. The job may be
	// nil when a stage is entered before the first poll response arrives.
	StageChanged(stage Stage, job *api.Job)
	// JobUpdated fires on every poll tick and simulated step change.
	JobUpdated(job *api.Job)
	// Failed fires when a job reaches the failed status.
	Failed(job *api.Job, reason string)
}

// NopEvents discards all workflow events.
type NopEvents struct{}

func (NopEvents) StageChanged(Stage, *api.Job) {}
func (NopEvents) JobUpdated(*api.Job)          {}
func (NopEvents) Failed(*api.Job, string)      {}
