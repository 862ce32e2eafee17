package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"skylight.app/cli/internal/core/ports"
)

// NewLoginCommand signs in against the gateway and persists the session.
func NewLoginCommand(container *CLIContainer) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the workspace",
		Long: `Sign in with your workspace credentials.

The token pair issued by the gateway is stored encrypted in the profile
directory and reused by every other command until it expires or you run
` + "`sky logout`" + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			if email == "" {
				fmt.Print("Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}
			if email == "" {
				return fmt.Errorf("email is required")
			}

			if password == "" {
				fmt.Print("Password: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			tokens, err := container.Exchanger.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := container.State.UpdateTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
				return fmt.Errorf("failed to persist session: %w", err)
			}

			container.Notifier.Notify(fmt.Sprintf("Signed in as %s", email), ports.NotifyInfo)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")

	return cmd
}

// NewLogoutCommand discards the persisted session.
func NewLogoutCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.State.Logout(); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			container.Notifier.Notify("Signed out", ports.NotifyInfo)
			return nil
		},
	}
}
