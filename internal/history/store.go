package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"rationale/internal/api"
	"rationale/internal/logging"
)

// Terminal actions a user can choose for a finished report. Recorded per job
// so a restart-from-step run can replay the same action when it finishes.
const (
	ActionSave        = "save"
	ActionSaveAndSign = "save-and-sign"
)

// Record is one mirrored job row.
type Record struct {
	JobID          string
	ToolUsed       string
	VideoTitle     string
	YoutubeURL     string
	ChannelName    string
	Status         string
	Stage          string
	CurrentStep    int
	Progress       int
	PDFPath        string
	TerminalAction string
	FirstSeenAt    time.Time
	LastSeenAt     time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status string
	Tool   string
	Search string
	Limit  int
}

// Fixed-width timestamps so string comparison in ORDER BY matches time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store mirrors job state into a local SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the history database under stateDir.
func Open(ctx context.Context, stateDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, logger: logger.With(slog.String(logging.FieldComponent, "history"))}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordJob upserts a snapshot of the given job. The terminal action column is
// left alone so a snapshot refresh never erases a recorded user choice.
func (s *Store) RecordJob(ctx context.Context, job *api.Job, stage string) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("record job: missing job id")
	}

	now := time.Now().UTC().Format(timeFormat)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (
			job_id, tool_used, video_title, youtube_url, channel_name,
			status, stage, current_step, progress, pdf_path,
			first_seen_at, last_seen_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			tool_used = excluded.tool_used,
			video_title = excluded.video_title,
			youtube_url = excluded.youtube_url,
			channel_name = excluded.channel_name,
			status = excluded.status,
			stage = excluded.stage,
			current_step = excluded.current_step,
			progress = excluded.progress,
			pdf_path = excluded.pdf_path,
			last_seen_at = excluded.last_seen_at`,
		job.ID, job.ToolUsed, job.VideoTitle, job.YoutubeURL, job.ChannelName,
		job.Status, stage, job.CurrentStep, job.Progress, job.PDFPath,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("record job %s: %w", job.ID, err)
	}
	return nil
}

// SetTerminalAction records which finishing action the user chose for a job.
func (s *Store) SetTerminalAction(ctx context.Context, jobID, action string) error {
	if action != ActionSave && action != ActionSaveAndSign {
		return fmt.Errorf("unknown terminal action %q", action)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE jobs SET terminal_action = ?, last_seen_at = ? WHERE job_id = ?",
		action, time.Now().UTC().Format(timeFormat), jobID,
	)
	if err != nil {
		return fmt.Errorf("set terminal action for %s: %w", jobID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set terminal action for %s: %w", jobID, err)
	}
	if rows == 0 {
		return fmt.Errorf("set terminal action: job %s not recorded", jobID)
	}
	s.logger.Debug("terminal action recorded",
		slog.String(logging.FieldJobID, jobID),
		slog.String("action", action))
	return nil
}

// TerminalAction returns the recorded action for a job, or "" when the user
// never chose one.
func (s *Store) TerminalAction(ctx context.Context, jobID string) (string, error) {
	var action string
	err := s.db.QueryRowContext(ctx,
		"SELECT terminal_action FROM jobs WHERE job_id = ?", jobID,
	).Scan(&action)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read terminal action for %s: %w", jobID, err)
	}
	return action, nil
}

// Get returns the mirrored record for a job, or nil when the job was never seen.
func (s *Store) Get(ctx context.Context, jobID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE job_id = ?", jobID)
	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return record, nil
}

// List returns mirrored jobs, newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Record, error) {
	query := selectColumns
	var conditions []string
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Tool != "" {
		conditions = append(conditions, "tool_used = ?")
		args = append(args, filter.Tool)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(video_title LIKE ? OR channel_name LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_seen_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job rows: %w", err)
	}
	return records, nil
}

// Delete removes a job from the mirror. Deleting an unknown job is not an error.
func (s *Store) Delete(ctx context.Context, jobID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE job_id = ?", jobID); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}
	return nil
}

const selectColumns = `
	SELECT job_id, tool_used, video_title, youtube_url, channel_name,
	       status, stage, current_step, progress, pdf_path,
	       terminal_action, first_seen_at, last_seen_at
	FROM jobs`

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*Record, error) {
	var record Record
	var firstSeen, lastSeen string
	err := row.Scan(
		&record.JobID, &record.ToolUsed, &record.VideoTitle, &record.YoutubeURL,
		&record.ChannelName, &record.Status, &record.Stage, &record.CurrentStep,
		&record.Progress, &record.PDFPath, &record.TerminalAction,
		&firstSeen, &lastSeen,
	)
	if err != nil {
		return nil, err
	}
	record.FirstSeenAt, _ = time.Parse(time.RFC3339Nano, firstSeen)
	record.LastSeenAt, _ = time.Parse(time.RFC3339Nano, lastSeen)
	return &record, nil
}
