package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"rationale/internal/api"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Administer tracked channels and their logos",
	}
	channelsCmd.AddCommand(newChannelsListCommand(ctx))
	channelsCmd.AddCommand(newChannelsAddCommand(ctx))
	channelsCmd.AddCommand(newChannelsUpdateCommand(ctx))
	channelsCmd.AddCommand(newChannelsDeleteCommand(ctx))
	channelsCmd.AddCommand(newChannelsLogoCommand(ctx))
	return channelsCmd
}

func newChannelsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			channels, err := client.ListChannels(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(channels))
			for _, channel := range channels {
				rows = append(rows, []string{
					strconv.FormatInt(channel.ID, 10),
					channel.Name,
					orDash(channel.ChannelLink),
					yesNo(channel.LogoPath != ""),
					formatWhen(channel.AddedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Link", "Logo", "Added"},
				rows,
				1,
			))
			return nil
		},
	}
}

func channelUploadFromFlags(name, link, logoPath string) (api.ChannelUpload, error) {
	upload := api.ChannelUpload{Name: name, URL: link}
	if logoPath == "" {
		return upload, nil
	}
	logo, err := os.ReadFile(logoPath)
	if err != nil {
		return upload, fmt.Errorf("read logo %s: %w", logoPath, err)
	}
	upload.Logo = bytes.NewReader(logo)
	upload.LogoFilename = filepath.Base(logoPath)
	return upload, nil
}

func newChannelsAddCommand(ctx *commandContext) *cobra.Command {
	var name, link, logoPath string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := channelUploadFromFlags(name, link, logoPath)
			if err != nil {
				return err
			}
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			channel, err := client.CreateChannel(cmd.Context(), upload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added channel %s (%d)\n", channel.Name, channel.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Channel name")
	cmd.Flags().StringVar(&link, "url", "", "Channel URL")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Logo image file")
	return cmd
}

func newChannelsUpdateCommand(ctx *commandContext) *cobra.Command {
	var name, link, logoPath string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			upload, err := channelUploadFromFlags(name, link, logoPath)
			if err != nil {
				return err
			}
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			channel, err := client.UpdateChannel(cmd.Context(), id, upload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated channel %s\n", channel.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Channel name")
	cmd.Flags().StringVar(&link, "url", "", "Channel URL")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Logo image file")
	return cmd
}

func newChannelsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a channel",
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
			if err := client.DeleteChannel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted channel %d\n", id)
			return nil
		},
	}
}

func newChannelsLogoCommand(ctx *commandContext) *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "logo <id>",
		Short: "Download a channel's logo",
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
			body, err := client.ChannelLogo(cmd.Context(), id)
			if err != nil {
				return err
			}
			defer body.Close()

			if destDir == "" {
				destDir = "."
			}
			localPath := filepath.Join(destDir, fmt.Sprintf("channel-%d-logo", id))
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
