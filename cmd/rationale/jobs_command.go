package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rationale/internal/history"
)

// newJobsCommand lists jobs from the local history mirror. It works offline;
// rows reflect the last time each job was polled.
func newJobsCommand(ctx *commandContext) *cobra.Command {
	var filter history.Filter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List locally tracked jobs (works offline)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				action := record.TerminalAction
				if action == "" {
					action = "-"
				}
				rows = append(rows, []string{
					record.JobID,
					truncate(orDash(record.VideoTitle), 40),
					displayStatus(record.Status),
					record.Stage,
					strconv.Itoa(record.Progress) + "%",
					action,
					record.LastSeenAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Status", "Stage", "Progress", "Action", "Last seen"},
				rows,
				5,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&filter.Tool, "tool", "", "Filter by tool")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Filter by title or channel")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of rows")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}
