package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newAPIKeysCommand(ctx *commandContext) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "api-keys",
		Short: "Administer provider credentials",
	}
	keysCmd.AddCommand(newAPIKeysListCommand(ctx))
	keysCmd.AddCommand(newAPIKeysSetCommand(ctx))
	keysCmd.AddCommand(newAPIKeysUploadCommand(ctx))
	keysCmd.AddCommand(newAPIKeysDeleteCommand(ctx))
	keysCmd.AddCommand(newAPIKeysCookiesCommand(ctx))
	return keysCmd
}

func newAPIKeysListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			keys, err := client.ListAPIKeys(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(keys))
			for _, key := range keys {
				rows = append(rows, []string{
					key.Provider,
					yesNo(key.Value != ""),
					maskSecret(key.Value),
					formatWhen(key.UpdatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Provider", "Configured", "Value", "Updated"},
				rows,
			))
			return nil
		},
	}
}

// maskSecret keeps the first four characters visible.
func maskSecret(value string) string {
	if value == "" {
		return "-"
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + strings.Repeat("*", len(value)-4)
}

func newAPIKeysSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> <value>",
		Short: "Set a provider credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			key, err := client.PutAPIKey(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credential stored for %s\n", key.Provider)
			return nil
		},
	}
}

func newAPIKeysUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <service-account.json>",
		Short: "Upload a Google Cloud service-account file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if _, err := client.UploadServiceAccount(cmd.Context(), filepath.Base(args[0]), file); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Service-account file uploaded")
			return nil
		},
	}
}

func newAPIKeysDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a provider credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed credential for %s\n", args[0])
			return nil
		},
	}
}

func newAPIKeysCookiesCommand(ctx *commandContext) *cobra.Command {
	cookiesCmd := &cobra.Command{
		Use:   "cookies",
		Short: "Manage the YouTube cookies file used by download steps",
	}

	cookiesCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a cookies file is on record",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := client.CookiesStatus(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !status.Exists {
				fmt.Fprintln(out, "No cookies file uploaded")
				return nil
			}
			fmt.Fprintf(out, "Cookies file present (%d bytes, updated %s)\n", status.FileSize, formatWhen(status.UpdatedAt))
			return nil
		},
	})

	cookiesCmd.AddCommand(&cobra.Command{
		Use:   "upload <cookies.txt>",
		Short: "Upload a Netscape-format cookies file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if _, err := client.UploadCookies(cmd.Context(), filepath.Base(args[0]), file); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cookies file uploaded")
			return nil
		},
	})

	cookiesCmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored cookies file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteCookies(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cookies file removed")
			return nil
		},
	})

	return cookiesCmd
}
