package di

import (
	"fmt"

	"skylight.app/cli/internal/application/services"
	"skylight.app/cli/internal/core/ports"
	"skylight.app/cli/internal/infrastructure/auth"
	"skylight.app/cli/internal/infrastructure/config"
	httpinfra "skylight.app/cli/internal/infrastructure/http"
	"skylight.app/cli/internal/infrastructure/logging"
	"skylight.app/cli/internal/interfaces/cli"
)

// userAgent identifies the CLI on the wire.
var userAgent = "skylight-cli/" + cli.Version

// Container wires the application: configuration, the auth state store, the
// refresh coordinator, and the gateway client, exposed to commands through
// cli.CLIContainer.
type Container struct {
	Config *config.Config
	Logger *logging.ConsoleLogger

	Identity   *auth.ClientIdentity
	State      *auth.FileAuthStateStore
	Exchanger  *auth.HTTPTokenExchanger
	Refresher  *services.RefreshCoordinator
	Gate       *services.HydrationGate
	Catalog    *cli.TOMLCatalog
	Notifier   *cli.TerminalNotifier
	Navigator  *cli.SessionNavigator
	Classifier *services.ErrorClassifier
	Gateway    *httpinfra.GatewayClient

	CLI *cli.CLIContainer
}

// NewContainer loads configuration and builds the full dependency graph.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	c := &Container{Config: cfg}
	c.Logger = newLogger(cfg)

	if err := c.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return c, nil
}

func newLogger(cfg *config.Config) *logging.ConsoleLogger {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		return logging.NewFileLogger(cfg.LogFile, level)
	}
	return logging.NewConsoleLogger(level)
}

// initializeComponents builds everything downstream of Config and Logger.
// Called again by the override hooks when a persistent flag moves the
// gateway URL or the profile directory.
func (c *Container) initializeComponents() error {
	identity, err := auth.LoadClientIdentity(c.Config.ProfileDir)
	if err != nil {
		return err
	}
	c.Identity = identity

	c.State, err = auth.NewFileAuthStateStore(c.Config.ProfileDir, c.Logger)
	if err != nil {
		return err
	}

	c.Catalog, err = cli.NewTOMLCatalog(c.Config.Messages)
	if err != nil {
		return err
	}

	c.Notifier = cli.NewTerminalNotifier()
	c.Navigator = cli.NewSessionNavigator(c.Notifier)
	c.Exchanger = auth.NewHTTPTokenExchanger(c.Config.APIURL, userAgent)
	c.Refresher = services.NewRefreshCoordinator(c.Exchanger, c.State, c.Navigator, c.Logger)
	c.Gate = services.NewHydrationGate(c.State)
	c.Classifier = services.NewErrorClassifier(c.Catalog, c.Notifier, c.Logger)

	c.Gateway, err = httpinfra.NewGatewayClient(
		c.Config.APIURL,
		userAgent,
		c.Identity,
		c.State,
		c.Gate,
		c.Refresher,
		c.Classifier,
		c.Logger,
	)
	if err != nil {
		return err
	}

	// The CLI container is mutated in place so commands created against it
	// see overrides applied by PersistentPreRunE.
	if c.CLI == nil {
		c.CLI = &cli.CLIContainer{Main: c}
	}
	c.CLI.Config = c.Config
	c.CLI.Logger = c.Logger
	c.CLI.Identity = c.Identity
	c.CLI.State = c.State
	c.CLI.Exchanger = c.Exchanger
	c.CLI.Refresher = c.Refresher
	c.CLI.Gateway = c.Gateway
	c.CLI.Notifier = c.Notifier
	c.CLI.Navigator = c.Navigator
	return nil
}

// ApplyAPIURLOverride points the client at a different gateway.
func (c *Container) ApplyAPIURLOverride(apiURL string) error {
	if apiURL == "" {
		return fmt.Errorf("gateway URL cannot be empty")
	}
	c.Config.APIURL = apiURL
	return c.initializeComponents()
}

// ApplyProfileDirOverride switches to a different profile directory,
// reloading identity and persisted session state.
func (c *Container) ApplyProfileDirOverride(dir string) error {
	if dir == "" {
		return fmt.Errorf("profile directory cannot be empty")
	}
	c.Config.ProfileDir = dir
	return c.initializeComponents()
}

// ApplyDebugOverride raises logger verbosity for this invocation.
func (c *Container) ApplyDebugOverride() {
	c.Logger.SetLevel(ports.LogLevelDebug)
}
