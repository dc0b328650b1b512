package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// FetchVideo asks the backend to resolve YouTube metadata for a URL.
func (c *Client) FetchVideo(ctx context.Context, youtubeURL string) (*VideoInfo, error) {
	youtubeURL = strings.TrimSpace(youtubeURL)
	if youtubeURL == "" {
		return nil, errors.New("youtube url must not be empty")
	}

	var envelope struct {
		Success bool      `json:"success"`
		Data    VideoInfo `json:"data"`
	}
	payload := map[string]string{"youtubeUrl": youtubeURL}
	if err := c.postJSON(ctx, "/media-rationale/fetch-video", payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// StartAnalysisRequest carries the metadata required to launch a media job.
type StartAnalysisRequest struct {
	YoutubeURL  string `json:"youtubeUrl"`
	ToolUsed    string `json:"toolUsed"`
	VideoTitle  string `json:"videoTitle"`
	VideoID     string `json:"videoId"`
	ChannelName string `json:"channelName"`
	UploadDate  string `json:"uploadDate"`
	UploadTime  string `json:"uploadTime"`
	Duration    string `json:"duration"`
}

// StartAnalysis launches the media pipeline and returns the new job id.
func (c *Client) StartAnalysis(ctx context.Context, req StartAnalysisRequest) (string, error) {
	if strings.TrimSpace(req.YoutubeURL) == "" {
		return "", errors.New("youtube url must not be empty")
	}

	var envelope struct {
		Success bool   `json:"success"`
		JobID   string `json:"jobId"`
	}
	if err := c.postJSON(ctx, "/media-rationale/start-analysis", req, &envelope); err != nil {
		return "", err
	}
	if envelope.JobID == "" {
		return "", errors.New("start-analysis response missing job id")
	}
	return envelope.JobID, nil
}

// Job fetches the full job record including all pipeline steps.
func (c *Client) Job(ctx context.Context, jobID string) (*Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("job id must not be empty")
	}

	var envelope struct {
		Success bool `json:"success"`
		Job     Job  `json:"job"`
	}
	if err := c.getJSON(ctx, "/media-rationale/job/"+url.PathEscape(jobID), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Job, nil
}

// RestartStep restarts the pipeline from the given 1-based step.
func (c *Client) RestartStep(ctx context.Context, jobID string, stepNumber int) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id must not be empty")
	}
	if stepNumber < 1 {
		return fmt.Errorf("step number %d out of range", stepNumber)
	}
	path := fmt.Sprintf("/media-rationale/restart-step/%s/%d", url.PathEscape(jobID), stepNumber)
	return c.postJSON(ctx, path, nil, nil)
}

// CSVRow is one record of a job's structured analysis CSV, keyed by header.
type CSVRow = map[string]string

// JobCSV returns the structured analysis rows produced for a job. The server
// responds 404 until the chart step has run.
func (c *Client) JobCSV(ctx context.Context, jobID string) ([]CSVRow, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("job id must not be empty")
	}
	var envelope struct {
		Success bool     `json:"success"`
		Data    []CSVRow `json:"data"`
	}
	if err := c.getJSON(ctx, "/media-rationale/job/"+url.PathEscape(jobID)+"/csv", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// UpdateJobCSV replaces the structured analysis rows for a job.
func (c *Client) UpdateJobCSV(ctx context.Context, jobID string, rows []CSVRow) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id must not be empty")
	}
	if len(rows) == 0 {
		return errors.New("csv rows must not be empty")
	}
	payload := map[string][]CSVRow{"data": rows}
	return c.putJSON(ctx, "/media-rationale/job/"+url.PathEscape(jobID)+"/csv", payload, nil)
}

// GeneratePDF regenerates the report PDF after CSV edits.
func (c *Client) GeneratePDF(ctx context.Context, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id must not be empty")
	}
	return c.postJSON(ctx, "/media-rationale/job/"+url.PathEscape(jobID)+"/generate-pdf", nil, nil)
}

// DeleteJob removes a job and its artifacts.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id must not be empty")
	}
	return c.deleteJSON(ctx, "/media-rationale/job/"+url.PathEscape(jobID), nil)
}

// JobPDF streams a job's rendered PDF. When signed is true the signed copy is
// requested, otherwise the unsigned one.
func (c *Client) JobPDF(ctx context.Context, jobID string, signed bool) (io.ReadCloser, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, errors.New("job id must not be empty")
	}
	variant := "unsigned"
	if signed {
		variant = "signed"
	}
	return c.getStream(ctx, "/media-rationale/job/"+url.PathEscape(jobID)+"/pdf/"+variant)
}
