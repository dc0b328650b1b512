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

func newFilesCommand(ctx *commandContext) *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Administer shared pipeline assets (master file, logo, font)",
	}
	filesCmd.AddCommand(newFilesListCommand(ctx))
	filesCmd.AddCommand(newFilesUploadCommand(ctx))
	filesCmd.AddCommand(newFilesDownloadCommand(ctx))
	filesCmd.AddCommand(newFilesDeleteCommand(ctx))
	return filesCmd
}

func newFilesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			files, err := client.ListUploadedFiles(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				rows = append(rows, []string{
					strconv.FormatInt(file.ID, 10),
					file.FileType,
					file.FileName,
					orDash(file.FileSize),
					formatWhen(file.UploadedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Type", "Name", "Size", "Uploaded"},
				rows,
				1, 4,
			))
			return nil
		},
	}
}

func newFilesUploadCommand(ctx *commandContext) *cobra.Command {
	var fileType string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a shared asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch fileType {
			case api.FileTypeMasterFile, api.FileTypeCompanyLogo, api.FileTypeCustomFont:
			default:
				return fmt.Errorf("unknown file type %q (expected %s, %s, or %s)",
					fileType, api.FileTypeMasterFile, api.FileTypeCompanyLogo, api.FileTypeCustomFont)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			uploaded, err := client.UploadFile(cmd.Context(), fileType, filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as %s (%d)\n", uploaded.FileName, uploaded.FileType, uploaded.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&fileType, "type", "t", api.FileTypeMasterFile, "Asset type")
	return cmd
}

func newFilesDownloadCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download an uploaded file",
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
			body, err := client.DownloadUploadedFile(cmd.Context(), id)
			if err != nil {
				return err
			}
			defer body.Close()

			if destDir == "" {
				destDir = "."
			}
			localPath := filepath.Join(destDir, fmt.Sprintf("uploaded-file-%d", id))
			out, err := os.Create(localPath)
			if err != nil {
				return err
			}
			defer out.Close()
			if _, err := io.Copy(out, body); err != nil {
				_ = os.Remove(localPath)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", localPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destDir, "dir", "d", "", "Destination directory")
	return cmd
}

func newFilesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an uploaded file",
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
			if err := client.DeleteUploadedFile(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted file %d\n", id)
			return nil
		},
	}
}
