package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rationale/internal/api"
)

// ErrNotAvailable is returned when a job has no resolvable PDF.
var ErrNotAvailable = errors.New("pdf not available")

const pdfStepNumber = 14

// Resolve returns the server-side path of the job's authoritative PDF.
func Resolve(job *api.Job) (string, error) {
	if job == nil {
		return "", ErrNotAvailable
	}

	switch job.Status {
	case api.StatusSigned, api.StatusCompleted:
		// Saved jobs resolve from the stored record only. Step outputs may
		// still name the pre-signature file and must not shadow it.
		if job.SignedPDFPath != "" {
			return job.SignedPDFPath, nil
		}
		if job.UnsignedPDFPath != "" {
			return job.UnsignedPDFPath, nil
		}
		return "", fmt.Errorf("job %s is %s but has no saved pdf: %w", job.ID, job.Status, ErrNotAvailable)
	case api.StatusPDFReady:
		if step := job.StepByNumber(pdfStepNumber); step != nil {
			for _, file := range step.OutputFiles {
				if strings.EqualFold(filepath.Ext(file), ".pdf") {
					return file, nil
				}
			}
		}
		if job.PDFPath != "" {
			return job.PDFPath, nil
		}
		return "", fmt.Errorf("job %s reports pdf_ready without a pdf: %w", job.ID, ErrNotAvailable)
	default:
		return "", fmt.Errorf("job %s status %s: %w", job.ID, job.Status, ErrNotAvailable)
	}
}

// Downloader fetches a stored PDF by its server-side path.
type Downloader interface {
	DownloadSaved(ctx context.Context, filePath string) (io.ReadCloser, error)
}

// Fetch resolves the job's PDF and writes it to destDir, returning the local
// path. The local filename is the base name of the resolved server path.
func Fetch(ctx context.Context, client Downloader, job *api.Job, destDir string) (string, error) {
	remotePath, err := Resolve(job)
	if err != nil {
		return "", err
	}

	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	body, err := client.DownloadSaved(ctx, remotePath)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", remotePath, err)
	}
	defer body.Close()

	localPath := filepath.Join(destDir, filepath.Base(remotePath))
	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", localPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		_ = os.Remove(localPath)
		return "", fmt.Errorf("write %s: %w", localPath, err)
	}
	return localPath, nil
}
