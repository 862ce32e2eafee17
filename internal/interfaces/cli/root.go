package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"skylight.app/cli/internal/application/services"
	"skylight.app/cli/internal/core/ports"
	"skylight.app/cli/internal/infrastructure/auth"
	"skylight.app/cli/internal/infrastructure/config"
	httpinfra "skylight.app/cli/internal/infrastructure/http"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds the dependencies CLI commands work with.
type CLIContainer struct {
	Config    *config.Config
	Logger    ports.Logger
	Identity  *auth.ClientIdentity
	State     ports.AuthStateStore
	Exchanger *auth.HTTPTokenExchanger
	Refresher *services.RefreshCoordinator
	Gateway   *httpinfra.GatewayClient
	Notifier  *TerminalNotifier
	Navigator *SessionNavigator

	// Main is the wiring container; asserted to apply flag overrides
	// without a circular import.
	Main interface{}
}

// NewRootCommand builds the `sky` command tree.
func NewRootCommand(container *CLIContainer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sky",
		Short: "Skylight CLI - workspace access from the terminal",
		Long: `Skylight CLI talks to a Skylight workspace through its API gateway.

It maintains an authenticated session the same way the web client does:
requests carry the profile identity, expired access tokens are refreshed
transparently, and the original request is replayed once a new token is
available.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigurationOverrides(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("api-url", "", "Gateway URL (default from config)")
	rootCmd.PersistentFlags().String("profile", "", "Profile directory (default is $HOME/.skylight)")

	rootCmd.AddCommand(NewLoginCommand(container))
	rootCmd.AddCommand(NewLogoutCommand(container))
	rootCmd.AddCommand(NewStatusCommand(container))
	rootCmd.AddCommand(NewCallCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))
	rootCmd.AddCommand(NewDashboardCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyConfigurationOverrides pushes explicitly-set persistent flags into
// the wiring container before any command runs.
func applyConfigurationOverrides(cmd *cobra.Command, container *CLIContainer) error {
	main, ok := container.Main.(interface {
		ApplyAPIURLOverride(string) error
		ApplyProfileDirOverride(string) error
		ApplyDebugOverride()
	})
	if !ok {
		return nil
	}

	if cmd.Flags().Changed("profile") {
		dir, _ := cmd.Flags().GetString("profile")
		if err := main.ApplyProfileDirOverride(dir); err != nil {
			return fmt.Errorf("failed to switch profile: %w", err)
		}
	}
	if cmd.Flags().Changed("api-url") {
		apiURL, _ := cmd.Flags().GetString("api-url")
		if err := main.ApplyAPIURLOverride(apiURL); err != nil {
			return fmt.Errorf("failed to override gateway URL: %w", err)
		}
	}
	if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
		main.ApplyDebugOverride()
	}
	return nil
}
