package workflow

import "rationale/internal/api"

// Stage identifies which workflow panel a job is in.
type Stage string

const (
	StageInput        Stage = "input"
	StageProcessing   Stage = "processing"
	StagePDFPreview   Stage = "pdf-preview"
	StageSaved        Stage = "saved"
	StageUploadSigned Stage = "upload-signed"
	StageCompleted    Stage = "completed"
)

// StageForStatus maps a server job status to the workflow stage a resumed
// view should open in. Failed jobs resume into processing so the step list
// with the failure stays visible.
func StageForStatus(status string) Stage {
	switch status {
	case api.StatusPDFReady:
		return StagePDFPreview
	case api.StatusSigned:
		return StageSaved
	case api.StatusCompleted:
		return StageCompleted
	default:
		return StageProcessing
	}
}
