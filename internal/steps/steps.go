package steps

import "rationale/internal/api"

// Display carries the resolved presentation state for one step.
type Display struct {
	StepNumber int
	Name       string
	Status     string
	Message    string
	StartedAt  string
	EndedAt    string
	CanRestart bool
}

// Resolve computes the effective status for the step at the given zero-based
// index. completedSteps and currentStep are optional; pass a negative value
// to mean unset.
func Resolve(step api.Step, index, completedSteps, currentStep int) string {
	if step.Status != "" {
		return step.Status
	}
	if completedSteps >= 0 {
		switch {
		case index+1 < completedSteps:
			return api.StepSuccess
		case index+1 == completedSteps:
			return api.StepRunning
		default:
			return api.StepPending
		}
	}
	if currentStep >= 0 {
		switch {
		case step.StepNumber < currentStep:
			return api.StepSuccess
		case step.StepNumber == currentStep:
			return api.StepRunning
		default:
			return api.StepPending
		}
	}
	return api.StepPending
}

// CanRestart reports whether the restart affordance applies to a step with
// the given effective status. Pending and running steps never offer it.
func CanRestart(status string) bool {
	return status == api.StepSuccess || status == api.StepFailed
}

// Render resolves every step of a job into display rows.
func Render(job *api.Job) []Display {
	if job == nil {
		return nil
	}
	rows := make([]Display, 0, len(job.Steps))
	for i, step := range job.Steps {
		status := Resolve(step, i, -1, job.CurrentStep)
		rows = append(rows, Display{
			StepNumber: step.StepNumber,
			Name:       step.Name,
			Status:     status,
			Message:    step.Message,
			StartedAt:  step.StartedAt,
			EndedAt:    step.EndedAt,
			CanRestart: CanRestart(status),
		})
	}
	return rows
}
