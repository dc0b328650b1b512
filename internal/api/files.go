package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// File types accepted by the uploaded-files endpoint.
const (
	FileTypeMasterFile  = "masterFile"
	FileTypeCompanyLogo = "companyLogo"
	FileTypeCustomFont  = "customFont"
)

// ListUploadedFiles returns all shared pipeline assets. Requires an admin token.
func (c *Client) ListUploadedFiles(ctx context.Context) ([]UploadedFile, error) {
	var files []UploadedFile
	if err := c.getJSON(ctx, "/uploaded-files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadFile uploads or replaces a shared pipeline asset.
func (c *Client) UploadFile(ctx context.Context, fileType, filename string, content io.Reader) (*UploadedFile, error) {
	switch fileType {
	case FileTypeMasterFile, FileTypeCompanyLogo, FileTypeCustomFont:
	default:
		return nil, fmt.Errorf("unknown file type %q", fileType)
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, errors.New("filename must not be empty")
	}
	if content == nil {
		return nil, errors.New("file content must not be nil")
	}

	fields := map[string]string{"file_type": fileType}
	files := []multipartFile{{field: "file", filename: filename, content: content}}
	var uploaded UploadedFile
	if err := c.postMultipart(ctx, "/uploaded-files/upload", fields, files, &uploaded); err != nil {
		return nil, err
	}
	return &uploaded, nil
}

// DeleteUploadedFile removes a shared pipeline asset.
func (c *Client) DeleteUploadedFile(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("file id must be positive")
	}
	return c.deleteJSON(ctx, fmt.Sprintf("/uploaded-files/%d", id), nil)
}

// DownloadUploadedFile streams a shared pipeline asset.
func (c *Client) DownloadUploadedFile(ctx context.Context, id int64) (io.ReadCloser, error) {
	if id <= 0 {
		return nil, errors.New("file id must be positive")
	}
	return c.getStream(ctx, fmt.Sprintf("/uploaded-files/download/%d", id))
}
