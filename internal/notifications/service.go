package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rationale/internal/config"
)

const userAgent = "Rationale-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyPDFReady(ctx context.Context, jobTitle string) error
	NotifyWorkflowCompleted(ctx context.Context, jobTitle, stage string) error
	NotifySignedUploaded(ctx context.Context, jobTitle, filename string) error
	NotifyJobFailed(ctx context.Context, jobTitle, reason string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		pdfReady: cfg.Notifications.PDFReady,
		complete: cfg.Notifications.Completion,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	pdfReady bool
	complete bool
	errors   bool
}

func (n *ntfyService) NotifyPDFReady(ctx context.Context, jobTitle string) error {
	if !n.pdfReady {
		return nil
	}
	jobTitle = strings.TrimSpace(jobTitle)
	data := payload{
		title:   "Rationale - PDF Ready",
		message: fmt.Sprintf("Report ready for review: %s", jobTitle),
		tags:    []string{"rationale", "pdf", "ready"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyWorkflowCompleted(ctx context.Context, jobTitle, stage string) error {
	if !n.complete {
		return nil
	}
	jobTitle = strings.TrimSpace(jobTitle)
	stage = strings.TrimSpace(stage)
	if stage == "" {
		stage = "completed"
	}
	data := payload{
		title:    "Rationale - Complete",
		message:  fmt.Sprintf("Workflow %s: %s", stage, jobTitle),
		tags:     []string{"rationale", "workflow", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySignedUploaded(ctx context.Context, jobTitle, filename string) error {
	if !n.complete {
		return nil
	}
	jobTitle = strings.TrimSpace(jobTitle)
	filename = strings.TrimSpace(filename)
	message := fmt.Sprintf("Signed PDF uploaded: %s", jobTitle)
	if filename != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, filename)
	}
	data := payload{
		title:   "Rationale - Signed",
		message: message,
		tags:    []string{"rationale", "signed", "uploaded"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, jobTitle, reason string) error {
	if !n.errors {
		return nil
	}
	jobTitle = strings.TrimSpace(jobTitle)
	reason = strings.TrimSpace(reason)
	message := fmt.Sprintf("Job failed: %s", jobTitle)
	if reason != "" {
		message = fmt.Sprintf("%s\n%s", message, reason)
	}
	data := payload{
		title:    "Rationale - Failed",
		message:  message,
		tags:     []string{"rationale", "job", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Rationale - Error",
		message:  builder.String(),
		tags:     []string{"rationale", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Rationale - Test",
		message:  "Notification system test",
		tags:     []string{"rationale", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyPDFReady(context.Context, string) error                  { return nil }
func (noopService) NotifyWorkflowCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifySignedUploaded(context.Context, string, string) error    { return nil }
func (noopService) NotifyJobFailed(context.Context, string, string) error         { return nil }
func (noopService) NotifyError(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                        { return nil }
