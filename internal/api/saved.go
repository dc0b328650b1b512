package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// SavedFilter narrows the saved rationale listing.
type SavedFilter struct {
	Tool     string
	Channel  string
	DateFrom string
	DateTo   string
}

func (f SavedFilter) query() url.Values {
	query := url.Values{}
	if f.Tool != "" && f.Tool != "all" {
		query.Set("tool", f.Tool)
	}
	if f.Channel != "" && f.Channel != "all" {
		query.Set("channel", f.Channel)
	}
	if f.DateFrom != "" {
		query.Set("dateFrom", f.DateFrom)
	}
	if f.DateTo != "" {
		query.Set("dateTo", f.DateTo)
	}
	return query
}

// ListSaved returns saved rationales matching the filter.
func (c *Client) ListSaved(ctx context.Context, filter SavedFilter) ([]SavedRationale, error) {
	var envelope struct {
		Success    bool             `json:"success"`
		Rationales []SavedRationale `json:"rationales"`
	}
	if err := c.getJSON(ctx, "/saved-rationale", filter.query(), &envelope); err != nil {
		return nil, err
	}
	return envelope.Rationales, nil
}

// Saved returns a single saved rationale by id.
func (c *Client) Saved(ctx context.Context, id int64) (*SavedRationale, error) {
	if id <= 0 {
		return nil, errors.New("rationale id must be positive")
	}
	var envelope struct {
		Success   bool           `json:"success"`
		Rationale SavedRationale `json:"rationale"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/saved-rationale/%d", id), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Rationale, nil
}

// SaveRationale records the job's unsigned PDF as a saved rationale.
func (c *Client) SaveRationale(ctx context.Context, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id must not be empty")
	}
	payload := map[string]string{"jobId": jobID}
	return c.postJSON(ctx, "/saved-rationale/save", payload, nil)
}

// UploadSigned uploads a signed PDF for the job and logs the sign-off.
func (c *Client) UploadSigned(ctx context.Context, jobID, filename string, content io.Reader) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id must not be empty")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return errors.New("filename must not be empty")
	}
	if content == nil {
		return errors.New("file content must not be nil")
	}
	fields := map[string]string{"jobId": jobID}
	files := []multipartFile{{field: "file", filename: filename, content: content}}
	return c.postMultipart(ctx, "/saved-rationale/upload-signed", fields, files, nil)
}

// DownloadSaved streams a stored PDF by its server-side path.
func (c *Client) DownloadSaved(ctx context.Context, filePath string) (io.ReadCloser, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil, errors.New("file path must not be empty")
	}
	encoded := url.PathEscape(filePath)
	return c.getStream(ctx, "/saved-rationale/download/"+encoded)
}
