package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rationale/internal/api"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	var query api.DashboardQuery
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show aggregated job stats and recent jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			page, err := client.Dashboard(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("fetch dashboard: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Total jobs", statusInfo, strconv.Itoa(page.Stats.TotalJobs), colorize))
			fmt.Fprintln(out, renderStatusLine("Completed", statusOK, strconv.Itoa(page.Stats.CompletedJobs), colorize))
			fmt.Fprintln(out, renderStatusLine("Running", statusInfo, strconv.Itoa(page.Stats.RunningJobs), colorize))
			fmt.Fprintln(out, renderStatusLine("Pending", statusWarn, strconv.Itoa(page.Stats.PendingJobs), colorize))
			fmt.Fprintln(out, renderStatusLine("Failed", statusError, strconv.Itoa(page.Stats.FailedJobs), colorize))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(page.Jobs))
			for _, job := range page.Jobs {
				rows = append(rows, []string{
					job.ID,
					truncate(orDash(job.Title), 40),
					orDash(job.ChannelName),
					displayStatus(job.Status),
					strconv.Itoa(job.Progress) + "%",
					formatWhen(job.CreatedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Channel", "Status", "Progress", "Created"},
				rows,
				5,
			))
			if page.Total > len(page.Jobs) {
				fmt.Fprintf(out, "Showing %d of %d jobs\n", len(page.Jobs), page.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Search, "search", "", "Filter by title or channel")
	cmd.Flags().StringVar(&query.Tool, "tool", "", "Filter by tool")
	cmd.Flags().StringVar(&query.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&query.DateFrom, "from", "", "Filter jobs created on or after this date")
	cmd.Flags().StringVar(&query.DateTo, "to", "", "Filter jobs created on or before this date")
	cmd.Flags().IntVar(&query.Limit, "limit", 20, "Maximum number of jobs")
	cmd.Flags().IntVar(&query.Offset, "offset", 0, "Pagination offset")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")

	cmd.AddCommand(newDashboardStatsCommand(ctx))
	return cmd
}

func newDashboardStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show job stats only",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}
}
