package api

import (
	"context"
	"net/url"
	"strconv"
)

// DashboardQuery narrows the dashboard job listing.
type DashboardQuery struct {
	Search   string
	Tool     string
	Status   string
	DateFrom string
	DateTo   string
	Limit    int
	Offset   int
}

func (q DashboardQuery) values() url.Values {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Tool != "" && q.Tool != "all" {
		query.Set("tool", q.Tool)
	}
	if q.Status != "" && q.Status != "all" {
		query.Set("status", q.Status)
	}
	if q.DateFrom != "" {
		query.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		query.Set("date_to", q.DateTo)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}
	return query
}

// Dashboard returns stats plus a filtered, paginated job listing.
func (c *Client) Dashboard(ctx context.Context, query DashboardQuery) (*DashboardPage, error) {
	var page DashboardPage
	if err := c.getJSON(ctx, "/dashboard", query.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Stats returns only the dashboard counters.
func (c *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.getJSON(ctx, "/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
