package main

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rationale/internal/api"
)

var titleCaser = cases.Title(language.English)

// displayStatus maps wire statuses to the dashboard vocabulary.
func displayStatus(status string) string {
	if status == api.StatusProcessing {
		return "running"
	}
	return status
}

// displayTool renders tool identifiers like "media" as "Media Rationale".
func displayTool(tool string) string {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return "-"
	}
	if strings.Contains(strings.ToLower(tool), "rationale") {
		return titleCaser.String(tool)
	}
	return titleCaser.String(tool) + " Rationale"
}

func truncate(value string, max int) string {
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// formatWhen shortens RFC3339-style timestamps to a readable form; anything
// unparseable passes through unchanged.
func formatWhen(value string) string {
	if value == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.Local().Format("2006-01-02 15:04")
		}
	}
	return value
}
