package cli

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"skylight.app/cli/internal/core/ports"
)

//go:embed messages.toml
var defaultMessages []byte

// TOMLCatalog resolves message keys like "errors.QUOTA_EXCEEDED" from the
// embedded default catalog, optionally overlaid with a profile-specific
// file. The catalog is read-only after construction.
type TOMLCatalog struct {
	messages map[string]string
}

// NewTOMLCatalog loads the embedded defaults plus an optional override file.
// Override entries win over the defaults key by key.
func NewTOMLCatalog(overridePath string) (*TOMLCatalog, error) {
	messages, err := parseCatalog(defaultMessages)
	if err != nil {
		return nil, fmt.Errorf("embedded message catalog is invalid: %w", err)
	}

	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read message catalog %s: %w", overridePath, err)
		}
		overrides, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message catalog %s: %w", overridePath, err)
		}
		for k, v := range overrides {
			messages[k] = v
		}
	}

	return &TOMLCatalog{messages: messages}, nil
}

// Translate returns the message for key, reporting whether an entry exists.
func (c *TOMLCatalog) Translate(key string) (string, bool) {
	msg, ok := c.messages[key]
	return msg, ok
}

// parseCatalog flattens TOML sections into dotted keys, so
// [errors] QUOTA_EXCEEDED = "..." becomes "errors.QUOTA_EXCEEDED".
func parseCatalog(data []byte) (map[string]string, error) {
	var sections map[string]map[string]string
	if err := toml.Unmarshal(data, &sections); err != nil {
		return nil, err
	}

	flat := make(map[string]string)
	for section, entries := range sections {
		for key, msg := range entries {
			flat[section+"."+key] = msg
		}
	}
	return flat, nil
}

var _ ports.MessageCatalog = (*TOMLCatalog)(nil)
