package steps

import (
	"testing"

	"rationale/internal/api"
)

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name           string
		step           api.Step
		index          int
		completedSteps int
		currentStep    int
		want           string
	}{
		{
			name: "explicit status wins over counters",
			step: api.Step{StepNumber: 3, Status: api.StepFailed},
			index: 2, completedSteps: 10, currentStep: 10,
			want: api.StepFailed,
		},
		{
			name: "completed count marks earlier steps success",
			step: api.Step{StepNumber: 2},
			index: 1, completedSteps: 5, currentStep: -1,
			want: api.StepSuccess,
		},
		{
			name: "completed count marks boundary step running",
			step: api.Step{StepNumber: 5},
			index: 4, completedSteps: 5, currentStep: -1,
			want: api.StepRunning,
		},
		{
			name: "completed count marks later steps pending",
			step: api.Step{StepNumber: 7},
			index: 6, completedSteps: 5, currentStep: -1,
			want: api.StepPending,
		},
		{
			name: "completed count preempts current step",
			step: api.Step{StepNumber: 2},
			index: 1, completedSteps: 1, currentStep: 9,
			want: api.StepRunning,
		},
		{
			name: "current step marks earlier success",
			step: api.Step{StepNumber: 4},
			index: 3, completedSteps: -1, currentStep: 6,
			want: api.StepSuccess,
		},
		{
			name: "current step marks itself running",
			step: api.Step{StepNumber: 6},
			index: 5, completedSteps: -1, currentStep: 6,
			want: api.StepRunning,
		},
		{
			name: "nothing set means pending",
			step: api.Step{StepNumber: 1},
			index: 0, completedSteps: -1, currentStep: -1,
			want: api.StepPending,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.step, tc.index, tc.completedSteps, tc.currentStep)
			if got != tc.want {
				t.Fatalf("Resolve = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveIsMonotonicUnderCurrentStep(t *testing.T) {
	// As currentStep advances, no resolved step may move backwards
	// (success -> running or running -> pending).
	rank := map[string]int{api.StepPending: 0, api.StepRunning: 1, api.StepSuccess: 2}
	steps := make([]api.Step, 14)
	for i := range steps {
		steps[i] = api.Step{StepNumber: i + 1}
	}

	previous := make([]int, len(steps))
	for currentStep := 1; currentStep <= 14; currentStep++ {
		for i, step := range steps {
			status := Resolve(step, i, -1, currentStep)
			if rank[status] < previous[i] {
				t.Fatalf("step %d regressed to %q at currentStep %d", step.StepNumber, status, currentStep)
			}
			previous[i] = rank[status]
		}
	}
}

func TestCanRestart(t *testing.T) {
	if !CanRestart(api.StepSuccess) || !CanRestart(api.StepFailed) {
		t.Fatal("success and failed steps must offer restart")
	}
	if CanRestart(api.StepRunning) || CanRestart(api.StepPending) {
		t.Fatal("running and pending steps must not offer restart")
	}
}

func TestRenderUsesJobCurrentStep(t *testing.T) {
	job := &api.Job{
		CurrentStep: 2,
		Steps: []api.Step{
			{StepNumber: 1},
			{StepNumber: 2},
			{StepNumber: 3},
			{StepNumber: 4, Status: api.StepFailed, Message: "yt-dlp exited 1"},
		},
	}
	rows := Render(job)
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d", len(rows))
	}
	if rows[0].Status != api.StepSuccess {
		t.Fatalf("step 1 = %q", rows[0].Status)
	}
	if rows[1].Status != api.StepRunning || rows[1].CanRestart {
		t.Fatalf("step 2 = %+v", rows[1])
	}
	if rows[2].Status != api.StepPending {
		t.Fatalf("step 3 = %q", rows[2].Status)
	}
	if rows[3].Status != api.StepFailed || !rows[3].CanRestart {
		t.Fatalf("step 4 = %+v", rows[3])
	}
}
