package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the CLI configuration. Precedence, lowest to highest:
// built-in defaults, the profile's config.toml, a .env file in the working
// directory, process environment, then command-line flag overrides applied
// by the CLI layer.
type Config struct {
	APIURL     string `toml:"api_url"`
	ProfileDir string `toml:"-"`
	LogLevel   string `toml:"log_level"`
	LogFile    string `toml:"log_file"`
	Messages   string `toml:"messages"` // optional message catalog override file
}

const configFileName = "config.toml"

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		APIURL:     "https://api.skylight.app",
		ProfileDir: defaultProfileDir(),
		LogLevel:   "info",
	}
}

// Load assembles configuration from all sources in precedence order.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Profile dir can be moved by the environment before the file is read.
	if dir := os.Getenv("SKYLIGHT_PROFILE_DIR"); dir != "" {
		cfg.ProfileDir = dir
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()
	cfg.loadEnv()

	return cfg, nil
}

// Save writes the file-backed portion of the configuration to the profile.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.ProfileDir, 0700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	f, err := os.OpenFile(c.path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func (c *Config) path() string {
	return filepath.Join(c.ProfileDir, configFileName)
}

func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.path(), err)
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("SKYLIGHT_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("SKYLIGHT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SKYLIGHT_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("SKYLIGHT_MESSAGES"); v != "" {
		c.Messages = v
	}
}

func defaultProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".skylight"
	}
	return filepath.Join(home, ".skylight")
}
