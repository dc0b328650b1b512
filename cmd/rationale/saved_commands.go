package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"rationale/internal/api"
)

func newSavedCommand(ctx *commandContext) *cobra.Command {
	savedCmd := &cobra.Command{
		Use:   "saved",
		Short: "Browse the saved rationale archive",
	}
	savedCmd.AddCommand(newSavedListCommand(ctx))
	savedCmd.AddCommand(newSavedShowCommand(ctx))
	savedCmd.AddCommand(newSavedDownloadCommand(ctx))
	return savedCmd
}

func newSavedListCommand(ctx *commandContext) *cobra.Command {
	var filter api.SavedFilter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved rationales",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			rationales, err := client.ListSaved(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rationales)
			}

			rows := make([][]string, 0, len(rationales))
			for _, r := range rationales {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					truncate(orDash(r.VideoTitle), 40),
					orDash(r.ChannelName),
					displayTool(r.ToolUsed),
					yesNo(r.SignedPDFPath != ""),
					formatWhen(r.CreatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Channel", "Tool", "Signed", "Saved"},
				rows,
				1,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Tool, "tool", "", "Filter by tool")
	cmd.Flags().StringVar(&filter.Channel, "channel", "", "Filter by channel")
	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "Filter saved on or after this date")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "Filter saved on or before this date")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newSavedShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved rationale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			rationale, err := client.Saved(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rationale)
		},
	}
}

func newSavedDownloadCommand(ctx *commandContext) *cobra.Command {
	var destDir string
	var signed bool

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a saved rationale's PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			rationale, err := client.Saved(cmd.Context(), id)
			if err != nil {
				return err
			}

			remotePath := rationale.UnsignedPDFPath
			if signed {
				if rationale.SignedPDFPath == "" {
					return fmt.Errorf("rationale %d has no signed PDF", id)
				}
				remotePath = rationale.SignedPDFPath
			} else if remotePath == "" && rationale.SignedPDFPath != "" {
				remotePath = rationale.SignedPDFPath
			}
			if remotePath == "" {
				return fmt.Errorf("rationale %d has no PDF recorded", id)
			}

			dir := destDir
			if dir == "" {
				dir = cfg.Paths.DownloadDir
			}
			if dir == "" {
				dir = "."
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create download directory: %w", err)
			}

			body, err := client.DownloadSaved(cmd.Context(), remotePath)
			if err != nil {
				return fmt.Errorf("download %s: %w", remotePath, err)
			}
			defer body.Close()

			localPath := filepath.Join(dir, filepath.Base(remotePath))
			out, err := os.Create(localPath)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := io.Copy(out, body); err != nil {
				_ = os.Remove(localPath)
				return fmt.Errorf("write %s: %w", localPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", localPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "dir", "d", "", "Destination directory")
	cmd.Flags().BoolVar(&signed, "signed", false, "Download the signed PDF")
	return cmd
}
