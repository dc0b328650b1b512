package api

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

// ListAPIKeys returns all provider credentials. Requires an admin token.
func (c *Client) ListAPIKeys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	if err := c.getJSON(ctx, "/api-keys", nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// PutAPIKey inserts or replaces the credential for a provider.
func (c *Client) PutAPIKey(ctx context.Context, provider, value string) (*APIKey, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, errors.New("provider must not be empty")
	}
	if len(provider) > 50 {
		return nil, errors.New("provider must be at most 50 characters")
	}
	var key APIKey
	payload := map[string]string{"provider": provider, "value": value}
	if err := c.putJSON(ctx, "/api-keys", payload, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// UploadServiceAccount uploads a Google Cloud service account JSON file.
func (c *Client) UploadServiceAccount(ctx context.Context, filename string, content io.Reader) (*APIKey, error) {
	filename = strings.TrimSpace(filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".json") {
		return nil, errors.New("service account file must be a .json file")
	}
	if content == nil {
		return nil, errors.New("file content must not be nil")
	}
	var key APIKey
	files := []multipartFile{{field: "file", filename: filename, content: content}}
	if err := c.postMultipart(ctx, "/api-keys/upload", nil, files, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// DeleteAPIKey removes the credential for a provider.
func (c *Client) DeleteAPIKey(ctx context.Context, provider string) error {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return errors.New("provider must not be empty")
	}
	return c.deleteJSON(ctx, "/api-keys/"+url.PathEscape(provider), nil)
}

// CookiesStatus reports whether a YouTube cookies file is on record.
func (c *Client) CookiesStatus(ctx context.Context) (*CookiesStatus, error) {
	var status CookiesStatus
	if err := c.getJSON(ctx, "/api-keys/cookies-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// UploadCookies replaces the YouTube cookies file. The backend expects the
// Netscape cookies.txt format yt-dlp consumes.
func (c *Client) UploadCookies(ctx context.Context, filename string, content io.Reader) (*CookiesStatus, error) {
	filename = strings.TrimSpace(filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".txt") {
		return nil, errors.New("cookies file must be a .txt file")
	}
	if content == nil {
		return nil, errors.New("file content must not be nil")
	}
	var status CookiesStatus
	files := []multipartFile{{field: "file", filename: filename, content: content}}
	if err := c.postMultipart(ctx, "/api-keys/upload-cookies", nil, files, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DeleteCookies removes the stored cookies file.
func (c *Client) DeleteCookies(ctx context.Context) error {
	return c.deleteJSON(ctx, "/api-keys/delete-cookies", nil)
}
