package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewConfigCommand shows and edits the persisted profile configuration.
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change profile configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.Config
			fmt.Printf("api_url   = %s\n", cfg.APIURL)
			fmt.Printf("profile   = %s\n", cfg.ProfileDir)
			fmt.Printf("log_level = %s\n", cfg.LogLevel)
			if cfg.LogFile != "" {
				fmt.Printf("log_file  = %s\n", cfg.LogFile)
			}
			if cfg.Messages != "" {
				fmt.Printf("messages  = %s\n", cfg.Messages)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value and save it to the profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.Config
			switch args[0] {
			case "api_url":
				cfg.APIURL = args[1]
			case "log_level":
				cfg.LogLevel = args[1]
			case "log_file":
				cfg.LogFile = args[1]
			case "messages":
				cfg.Messages = args[1]
			default:
				return fmt.Errorf("unknown configuration key %q", args[0])
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Printf("Saved %s\n", args[0])
			return nil
		},
	})

	return cmd
}
