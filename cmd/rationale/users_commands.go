package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rationale/internal/api"
)

func newUsersCommand(ctx *commandContext) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Administer accounts",
	}
	usersCmd.AddCommand(newUsersListCommand(ctx))
	usersCmd.AddCommand(newUsersCreateCommand(ctx))
	usersCmd.AddCommand(newUsersUpdateCommand(ctx))
	usersCmd.AddCommand(newUsersPasswordCommand(ctx))
	usersCmd.AddCommand(newUsersDeleteCommand(ctx))
	return usersCmd
}

func newUsersListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			users, err := client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), users)
			}

			rows := make([][]string, 0, len(users))
			for _, user := range users {
				rows = append(rows, []string{
					user.ID,
					user.DisplayName(),
					user.Email,
					user.Role,
					strconv.Itoa(user.JobCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Email", "Role", "Jobs"},
				rows,
				5,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func newUsersCreateCommand(ctx *commandContext) *cobra.Command {
	var req api.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			user, err := client.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.DisplayName(), user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Mobile, "mobile", "", "Mobile number")
	cmd.Flags().StringVar(&req.Role, "role", "employee", "Role (admin or employee)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	return cmd
}

func newUsersUpdateCommand(ctx *commandContext) *cobra.Command {
	var firstName, lastName, email, mobile, role string

	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update account fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{}
			if cmd.Flags().Changed("first-name") {
				fields["first_name"] = firstName
			}
			if cmd.Flags().Changed("last-name") {
				fields["last_name"] = lastName
			}
			if cmd.Flags().Changed("email") {
				fields["email"] = email
			}
			if cmd.Flags().Changed("mobile") {
				fields["mobile"] = mobile
			}
			if cmd.Flags().Changed("role") {
				fields["role"] = role
			}
			if len(fields) == 0 {
				return fmt.Errorf("nothing to update")
			}

			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			user, err := client.UpdateUser(cmd.Context(), args[0], fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated user %s\n", user.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&mobile, "mobile", "", "Mobile number")
	cmd.Flags().StringVar(&role, "role", "", "Role (admin or employee)")
	return cmd
}

func newUsersPasswordCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <user-id>",
		Short: "Change an account password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.ChangePassword(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password")
	return cmd
}

func newUsersDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	}
}
