package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rationale/internal/session"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the backend and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				reader := bufio.NewReader(cmd.InOrStdin())
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			client, err := ctx.anonClient()
			if err != nil {
				return err
			}
			result, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			if err := store.Save(session.Session{User: result.User, Token: result.AccessToken}); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", result.User.DisplayName(), result.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Best effort server-side logout; clearing local state is what
			// matters and must succeed even when the backend is down.
			if client, _, err := ctx.apiClient(); err == nil {
				if err := client.Logout(cmd.Context()); err != nil {
					ctx.loggerValue().Warn("server logout failed", "error", err)
				}
			}

			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.sessionStore()
			if err != nil {
				return err
			}
			sess, err := store.Load()
			if err != nil {
				if errors.Is(err, session.ErrNotAuthenticated) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User:  %s <%s>\n", sess.User.DisplayName(), sess.User.Email)
			fmt.Fprintf(out, "Role:  %s\n", sess.User.Role)
			if expiry, ok := session.TokenExpiry(sess.Token); ok {
				state := "valid"
				if time.Now().After(expiry) {
					state = "expired"
				}
				fmt.Fprintf(out, "Token: %s (expires %s)\n", state, expiry.Local().Format(time.RFC3339))
			}

			if probe {
				client, _, err := ctx.apiClient()
				if err != nil {
					return err
				}
				user, err := client.Me(cmd.Context())
				if err != nil {
					fmt.Fprintf(out, "Server: session rejected (%v)\n", err)
					return nil
				}
				fmt.Fprintf(out, "Server: session accepted for %s\n", user.Email)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Verify the session against the backend")
	return cmd
}
