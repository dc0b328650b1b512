package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ActivityFilter narrows the activity log listing. Zero values and "all"
// place no restriction.
type ActivityFilter struct {
	Tool     string
	User     string
	Action   string
	DateFrom string
	DateTo   string
	Search   string
}

func (f ActivityFilter) query() url.Values {
	query := url.Values{}
	if f.Tool != "" && f.Tool != "all" {
		query.Set("tool", f.Tool)
	}
	if f.User != "" && f.User != "all" {
		query.Set("user", f.User)
	}
	if f.Action != "" && f.Action != "all" {
		query.Set("action", f.Action)
	}
	if f.DateFrom != "" {
		query.Set("dateFrom", f.DateFrom)
	}
	if f.DateTo != "" {
		query.Set("dateTo", f.DateTo)
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	return query
}

// ActivityLogs returns audit trail entries matching the filter.
func (c *Client) ActivityLogs(ctx context.Context, filter ActivityFilter) ([]ActivityLog, error) {
	var envelope struct {
		Success bool          `json:"success"`
		Logs    []ActivityLog `json:"logs"`
	}
	if err := c.getJSON(ctx, "/activity-logs", filter.query(), &envelope); err != nil {
		return nil, err
	}
	return envelope.Logs, nil
}

// CreateActivityLog records an audit trail entry.
func (c *Client) CreateActivityLog(ctx context.Context, action, message, jobID, toolUsed string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return errors.New("action must not be empty")
	}
	payload := map[string]string{
		"action":  action,
		"message": message,
	}
	if jobID != "" {
		payload["job_id"] = jobID
	}
	if toolUsed != "" {
		payload["tool_used"] = toolUsed
	}
	return c.postJSON(ctx, "/activity-logs", payload, nil)
}
