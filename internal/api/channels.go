package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ChannelUpload carries the multipart form for creating or updating a channel.
// Logo is optional; when nil only the text fields are sent.
type ChannelUpload struct {
	Name         string
	URL          string
	LogoFilename string
	Logo         io.Reader
}

func (u ChannelUpload) validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("channel name must not be empty")
	}
	if strings.TrimSpace(u.URL) == "" {
		return errors.New("channel url must not be empty")
	}
	if u.Logo != nil && strings.TrimSpace(u.LogoFilename) == "" {
		return errors.New("logo filename must not be empty")
	}
	return nil
}

func (u ChannelUpload) parts() (map[string]string, []multipartFile) {
	fields := map[string]string{
		"channelName": strings.TrimSpace(u.Name),
		"channelUrl":  strings.TrimSpace(u.URL),
	}
	var files []multipartFile
	if u.Logo != nil {
		files = append(files, multipartFile{field: "logo", filename: u.LogoFilename, content: u.Logo})
	}
	return fields, files
}

// ListChannels returns all tracked channels. Requires an admin token.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	if err := c.getJSON(ctx, "/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// CreateChannel registers a channel, optionally with a logo image.
func (c *Client) CreateChannel(ctx context.Context, upload ChannelUpload) (*Channel, error) {
	if err := upload.validate(); err != nil {
		return nil, err
	}
	fields, files := upload.parts()
	var channel Channel
	if err := c.postMultipart(ctx, "/channels", fields, files, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// UpdateChannel replaces a channel's name, URL, and optionally its logo.
func (c *Client) UpdateChannel(ctx context.Context, id int64, upload ChannelUpload) (*Channel, error) {
	if id <= 0 {
		return nil, errors.New("channel id must be positive")
	}
	if err := upload.validate(); err != nil {
		return nil, err
	}
	fields, files := upload.parts()
	var channel Channel
	if err := c.putMultipart(ctx, fmt.Sprintf("/channels/%d", id), fields, files, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// DeleteChannel removes a channel and its logo.
func (c *Client) DeleteChannel(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("channel id must be positive")
	}
	return c.deleteJSON(ctx, fmt.Sprintf("/channels/%d", id), nil)
}

// ChannelLogo streams a channel's logo image.
func (c *Client) ChannelLogo(ctx context.Context, id int64) (io.ReadCloser, error) {
	if id <= 0 {
		return nil, errors.New("channel id must be positive")
	}
	return c.getStream(ctx, fmt.Sprintf("/channels/%d/logo", id))
}
