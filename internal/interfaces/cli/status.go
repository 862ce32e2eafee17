package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand reports the session and profile state.
func NewStatusCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and profile status",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Gateway:    %s\n", container.Config.APIURL)
			fmt.Printf("Profile:    %s\n", container.Config.ProfileDir)
			fmt.Printf("Client ID:  %s\n", container.Identity.ID())
			fmt.Printf("Hydrated:   %v\n", container.State.Hydrated())

			pair, ok := container.State.CurrentTokens()
			if !ok {
				fmt.Println("Session:    signed out")
				if reason := container.Navigator.LastReason(); reason != "" {
					fmt.Printf("Ended by:   %s\n", reason)
				}
				return nil
			}

			fmt.Println("Session:    signed in")
			if sub, ok := pair.TokenSubject(); ok {
				fmt.Printf("Subject:    %s\n", sub)
			}
			if exp, ok := pair.AccessTokenExpiry(); ok {
				remaining := time.Until(exp).Round(time.Second)
				if remaining > 0 {
					fmt.Printf("Token:      expires in %s (%s)\n", remaining, exp.Local().Format(time.RFC1123))
				} else {
					fmt.Printf("Token:      expired %s ago (refreshes on next request)\n", -remaining)
				}
			}
			return nil
		},
	}
}
