package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rationale/internal/api"
)

func newActivityCommand(ctx *commandContext) *cobra.Command {
	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Browse and append to the audit trail",
	}
	activityCmd.AddCommand(newActivityListCommand(ctx))
	activityCmd.AddCommand(newActivityAddCommand(ctx))
	return activityCmd
}

func newActivityListCommand(ctx *commandContext) *cobra.Command {
	var filter api.ActivityFilter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit trail entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			logs, err := client.ActivityLogs(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), logs)
			}

			rows := make([][]string, 0, len(logs))
			for _, entry := range logs {
				user := entry.FirstName
				if entry.LastName != "" {
					user += " " + entry.LastName
				}
				rows = append(rows, []string{
					formatWhen(entry.Timestamp),
					orDash(user),
					entry.Action,
					displayTool(entry.ToolUsed),
					truncate(entry.Message, 60),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "User", "Action", "Tool", "Message"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Tool, "tool", "", "Filter by tool")
	cmd.Flags().StringVar(&filter.User, "user", "", "Filter by user id")
	cmd.Flags().StringVar(&filter.Action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "Filter entries on or after this date")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "Filter entries on or before this date")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Filter by message text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newActivityAddCommand(ctx *commandContext) *cobra.Command {
	var message, jobID, tool string

	cmd := &cobra.Command{
		Use:   "add <action>",
		Short: "Record an audit trail entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.CreateActivityLog(cmd.Context(), args[0], message, jobID, tool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Activity recorded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Entry message")
	cmd.Flags().StringVar(&jobID, "job", "", "Associated job id")
	cmd.Flags().StringVar(&tool, "tool", "", "Associated tool")
	return cmd
}
