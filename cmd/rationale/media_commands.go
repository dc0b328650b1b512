package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"rationale/internal/api"
	"rationale/internal/artifact"
	"rationale/internal/history"
	"rationale/internal/steps"
	"rationale/internal/workflow"
)

func newMediaCommand(ctx *commandContext) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Media rationale workflow",
	}

	mediaCmd.AddCommand(newMediaFetchCommand(ctx))
	mediaCmd.AddCommand(newMediaStartCommand(ctx))
	mediaCmd.AddCommand(newMediaWatchCommand(ctx))
	mediaCmd.AddCommand(newMediaStatusCommand(ctx))
	mediaCmd.AddCommand(newMediaRestartCommand(ctx))
	mediaCmd.AddCommand(newMediaSaveCommand(ctx))
	mediaCmd.AddCommand(newMediaUploadSignedCommand(ctx))
	mediaCmd.AddCommand(newMediaCSVCommand(ctx))
	mediaCmd.AddCommand(newMediaGeneratePDFCommand(ctx))
	mediaCmd.AddCommand(newMediaDownloadCommand(ctx))
	mediaCmd.AddCommand(newMediaDeleteCommand(ctx))
	return mediaCmd
}

func newMediaFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <youtube-url>",
		Short: "Resolve video metadata for a YouTube URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			info, err := client.FetchVideo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch video: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), info)
		},
	}
}

func newMediaStartCommand(ctx *commandContext) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "start <youtube-url>",
		Short: "Start the 14-step analysis pipeline for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}

			info, err := client.FetchVideo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch video: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Video: %s (%s)\n", info.Title, info.ChannelName)

			req := api.StartAnalysisRequest{
				YoutubeURL:  args[0],
				ToolUsed:    "Media Rationale",
				VideoTitle:  info.Title,
				VideoID:     info.VideoID,
				ChannelName: info.ChannelName,
				UploadDate:  info.UploadDate,
				UploadTime:  info.UploadTime,
				Duration:    info.Duration,
			}

			controller, cleanup, events, err := mediaController(ctx, cmd, client)
			if err != nil {
				return err
			}
			defer cleanup()

			if noWatch {
				jobID, err := client.StartAnalysis(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("start analysis: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Job started: %s\n", jobID)
				return nil
			}

			watchCtx, cancel := context.WithTimeout(cmd.Context(), ctx.watchTimeout())
			defer cancel()

			jobID, err := controller.Begin(watchCtx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job started: %s\n", jobID)
			return waitForPreview(watchCtx, cmd, controller, events)
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Start the job and return immediately")
	return cmd
}

func newMediaWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Resume watching an existing job until its PDF is ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			controller, cleanup, events, err := mediaController(ctx, cmd, client)
			if err != nil {
				return err
			}
			defer cleanup()

			watchCtx, cancel := context.WithTimeout(cmd.Context(), ctx.watchTimeout())
			defer cancel()

			if err := controller.Watch(watchCtx, args[0]); err != nil {
				return err
			}
			return waitForPreview(watchCtx, cmd, controller, events)
		},
	}
}

// mediaController wires a workflow controller with history persistence and a
// progress-rendering event sink. cleanup closes the history store.
func mediaController(ctx *commandContext, cmd *cobra.Command, client *api.Client) (*workflow.Media, func(), *watchEvents, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := ctx.historyStore(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}
	events := newWatchEvents(cmd.OutOrStdout(), cfg.Notifications.Bell)
	controller := workflow.NewMedia(client, cfg, ctx.loggerValue(),
		workflow.WithRecorder(store),
		workflow.WithEvents(events),
	)
	cleanup := func() {
		controller.Stop()
		_ = store.Close()
	}
	return controller, cleanup, events, nil
}

// waitForPreview blocks until the workflow reaches a terminal stage, the job
// fails, or the watch timeout expires.
func waitForPreview(ctx context.Context, cmd *cobra.Command, controller *workflow.Media, events *watchEvents) error {
	select {
	case stage := <-events.done:
		out := cmd.OutOrStdout()
		if path := controller.PDFPath(); path != "" {
			fmt.Fprintf(out, "PDF ready: %s\n", path)
		}
		switch stage {
		case workflow.StagePDFPreview:
			fmt.Fprintln(out, "Run `rationale media save` to archive the report, or `--sign` to collect a signature.")
		case workflow.StageSaved:
			fmt.Fprintln(out, "Report already saved.")
		case workflow.StageCompleted:
			fmt.Fprintln(out, "Workflow already completed.")
		}
		return nil
	case reason := <-events.failed:
		return fmt.Errorf("job failed: %s", reason)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.New("watch timed out before the PDF was ready")
		}
		return ctx.Err()
	}
}

func newMediaStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a job's step progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			job, err := client.Job(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), job)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  [%s]  %d%%\n", orDash(job.VideoTitle), displayStatus(job.Status), job.Progress)

			rows := make([][]string, 0, len(job.Steps))
			for _, display := range steps.Render(job) {
				restart := ""
				if display.CanRestart {
					restart = "yes"
				}
				rows = append(rows, []string{
					strconv.Itoa(display.StepNumber),
					display.Name,
					display.Status,
					truncate(display.Message, 48),
					restart,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Step", "Status", "Message", "Restartable"},
				rows,
				1,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newMediaRestartCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "restart <job-id> <step>",
		Short: "Restart the pipeline from a step",
		Long: "Restart the pipeline from a step. Only steps that already finished " +
			"(success or failed) can be restarted. When watching, the terminal action " +
			"previously chosen for the job is re-applied once the PDF is ready again.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stepNumber, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step number %q", args[1])
			}

			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			controller, cleanup, events, err := mediaController(ctx, cmd, client)
			if err != nil {
				return err
			}
			defer cleanup()

			watchCtx, cancel := context.WithTimeout(cmd.Context(), ctx.watchTimeout())
			defer cancel()

			if err := controller.Watch(watchCtx, args[0]); err != nil {
				return err
			}
			if job := controller.Job(); job != nil {
				if step := job.StepByNumber(stepNumber); step != nil {
					if status := steps.Resolve(*step, stepNumber-1, -1, job.CurrentStep); !steps.CanRestart(status) {
						return fmt.Errorf("step %d is %s; only finished steps can restart", stepNumber, status)
					}
				}
			}
			if err := controller.RestartFromStep(watchCtx, stepNumber); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restarted from step %d\n", stepNumber)
			if !watch {
				controller.Stop()
				return nil
			}
			return waitForPreview(watchCtx, cmd, controller, events)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", true, "Follow progress until the PDF is ready again")
	return cmd
}

func newMediaSaveCommand(ctx *commandContext) *cobra.Command {
	var sign bool

	cmd := &cobra.Command{
		Use:   "save <job-id>",
		Short: "Archive a job's rationale, optionally awaiting a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			job, err := client.Job(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := client.SaveRationale(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("save rationale: %w", err)
			}

			action := history.ActionSave
			if sign {
				action = history.ActionSaveAndSign
			}
			recordTerminalAction(cmd.Context(), ctx, job, action)

			out := cmd.OutOrStdout()
			if sign {
				fmt.Fprintln(out, "Rationale saved; upload the signed PDF with `rationale media upload-signed`.")
			} else {
				fmt.Fprintln(out, "Rationale saved successfully")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sign, "sign", false, "Mark the job as awaiting a signed PDF")
	return cmd
}

// recordTerminalAction mirrors the chosen action into local history so a
// later restart-from-step can replay it. Best effort only.
func recordTerminalAction(ctx context.Context, cctx *commandContext, job *api.Job, action string) {
	if job == nil || job.ID == "" {
		cctx.loggerValue().Warn("skipping history record for job without id")
		return
	}
	store, err := cctx.historyStore(ctx)
	if err != nil {
		cctx.loggerValue().Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()
	stage := workflow.StageSaved
	if action == history.ActionSaveAndSign {
		stage = workflow.StageUploadSigned
	}
	if err := store.RecordJob(ctx, job, string(stage)); err != nil {
		cctx.loggerValue().Warn("recording job failed", "error", err)
		return
	}
	if err := store.SetTerminalAction(ctx, job.ID, action); err != nil {
		cctx.loggerValue().Warn("recording action failed", "error", err)
	}
}

func newMediaUploadSignedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload-signed <job-id> <pdf-file>",
		Short: "Upload the signed PDF for a saved job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[1], err)
			}
			defer file.Close()

			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			filename := filepath.Base(args[1])
			if err := client.UploadSigned(cmd.Context(), args[0], filename, file); err != nil {
				return fmt.Errorf("upload signed pdf: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed PDF uploaded: %s\n", filename)
			return nil
		},
	}
}

func newMediaCSVCommand(ctx *commandContext) *cobra.Command {
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Inspect or edit a job's structured CSV",
	}

	csvCmd.AddCommand(&cobra.Command{
		Use:   "get <job-id>",
		Short: "Print the job's CSV rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			rows, err := client.JobCSV(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rows)
		},
	})

	csvCmd.AddCommand(&cobra.Command{
		Use:   "put <job-id> <rows.json>",
		Short: "Replace the job's CSV rows from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			rows, err := decodeCSVRows(data)
			if err != nil {
				return err
			}
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.UpdateJobCSV(cmd.Context(), args[0], rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d rows; run `rationale media generate-pdf %s` to rebuild the report.\n", len(rows), args[0])
			return nil
		},
	})

	return csvCmd
}

func newMediaGeneratePDFCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-pdf <job-id>",
		Short: "Regenerate the PDF after CSV edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.GeneratePDF(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "PDF generation started")
			return nil
		},
	}
}

func newMediaDownloadCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "download <job-id>",
		Short: "Download the job's authoritative PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			job, err := client.Job(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			dir := destDir
			if dir == "" {
				dir = cfg.Paths.DownloadDir
			}
			localPath, err := artifact.Fetch(cmd.Context(), client, job, dir)
			if err != nil {
				if errors.Is(err, artifact.ErrNotAvailable) {
					return fmt.Errorf("no PDF available for job %s (status %s)", job.ID, job.Status)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", localPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "dir", "d", "", "Destination directory (defaults to the configured download dir)")
	return cmd
}

func newMediaDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job server-side and from local history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteJob(cmd.Context(), args[0]); err != nil {
				return err
			}
			if store, err := ctx.historyStore(cmd.Context()); err == nil {
				_ = store.Delete(cmd.Context(), args[0])
				_ = store.Close()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted job %s\n", args[0])
			return nil
		},
	}
}

func decodeCSVRows(data []byte) ([]api.CSVRow, error) {
	var rows []api.CSVRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse rows: expected a JSON array of objects: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("no rows to upload")
	}
	return rows, nil
}
