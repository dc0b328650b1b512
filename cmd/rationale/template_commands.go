package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect or edit the PDF template texts",
	}
	templateCmd.AddCommand(newTemplateShowCommand(ctx))
	templateCmd.AddCommand(newTemplateSetCommand(ctx))
	return templateCmd
}

func newTemplateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current template",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			template, err := client.GetPDFTemplate(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), template)
		},
	}
}

func newTemplateSetCommand(ctx *commandContext) *cobra.Command {
	var company, registration, disclaimer, disclosure, companyData string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update template fields; unset flags keep their current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			template, err := client.GetPDFTemplate(cmd.Context())
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("company") {
				template.CompanyName = company
			}
			if cmd.Flags().Changed("registration") {
				template.RegistrationDetails = registration
			}
			if cmd.Flags().Changed("disclaimer") {
				template.DisclaimerText = disclaimer
			}
			if cmd.Flags().Changed("disclosure") {
				template.DisclosureText = disclosure
			}
			if cmd.Flags().Changed("company-data") {
				template.CompanyData = companyData
			}

			updated, err := client.UpdatePDFTemplate(cmd.Context(), *template)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template updated (last change %s)\n", formatWhen(updated.UpdatedAt))
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVar(&registration, "registration", "", "Registration details")
	cmd.Flags().StringVar(&disclaimer, "disclaimer", "", "Disclaimer text")
	cmd.Flags().StringVar(&disclosure, "disclosure", "", "Disclosure text")
	cmd.Flags().StringVar(&companyData, "company-data", "", "Company data block")
	return cmd
}
