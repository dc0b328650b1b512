package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rationale/internal/workflow"
)

func newManualCommand(ctx *commandContext) *cobra.Command {
	manualCmd := &cobra.Command{
		Use:   "manual",
		Short: "Manual rationale workflow",
	}
	manualCmd.AddCommand(newManualGenerateCommand(ctx))
	return manualCmd
}

func newManualGenerateCommand(ctx *commandContext) *cobra.Command {
	var sub workflow.Submission
	var stockFlags []string
	var action string
	var signedFile string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the 6-step manual pipeline from stock entries",
		Long: "Run the 6-step manual pipeline. Each --stock takes \"name,time,analysis\". " +
			"--action save archives the report; --action sign additionally records the " +
			"signed PDF named by --signed-file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range stockFlags {
				stock, err := parseStock(raw)
				if err != nil {
					return err
				}
				sub.Stocks = append(sub.Stocks, stock)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.historyStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			events := newWatchEvents(cmd.OutOrStdout(), cfg.Notifications.Bell)
			controller := workflow.NewManual(cfg, ctx.loggerValue(),
				workflow.WithManualRecorder(store),
				workflow.WithManualEvents(events),
			)

			jobID, err := controller.Run(cmd.Context(), sub)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Manual job %s reached pdf-preview\n", jobID)

			switch action {
			case "", "none":
				fmt.Fprintln(out, "Re-run with --action save or --action sign to finish the workflow.")
				return nil
			case "save":
				if err := controller.Save(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Rationale saved successfully")
				return nil
			case "sign":
				if err := controller.SaveAndSign(cmd.Context()); err != nil {
					return err
				}
				if signedFile == "" {
					fmt.Fprintln(out, "Awaiting signed PDF; re-run with --signed-file to complete.")
					return nil
				}
				if err := controller.UploadSignedPDF(cmd.Context(), signedFile); err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed PDF uploaded: %s\n", signedFile)
				return nil
			default:
				return fmt.Errorf("unknown action %q (expected save, sign, or none)", action)
			}
		},
	}

	cmd.Flags().StringVar(&sub.PlatformName, "platform", "", "Platform name (e.g. YouTube)")
	cmd.Flags().StringVar(&sub.PlatformID, "platform-id", "", "Platform identifier (e.g. @handle)")
	cmd.Flags().StringVar(&sub.Date, "date", "", "Analysis date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&stockFlags, "stock", nil, "Stock entry as \"name,time,analysis\" (repeatable)")
	cmd.Flags().StringVar(&action, "action", "", "Terminal action: save, sign, or none")
	cmd.Flags().StringVar(&signedFile, "signed-file", "", "Signed PDF filename recorded with --action sign")
	return cmd
}

func parseStock(raw string) (workflow.Stock, error) {
	parts := strings.SplitN(raw, ",", 3)
	if len(parts) != 3 {
		return workflow.Stock{}, fmt.Errorf("invalid stock %q: expected \"name,time,analysis\"", raw)
	}
	return workflow.Stock{
		Name:     strings.TrimSpace(parts[0]),
		Time:     strings.TrimSpace(parts[1]),
		Analysis: strings.TrimSpace(parts[2]),
	}, nil
}
