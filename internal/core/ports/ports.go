package ports

import (
	"context"

	"skylight.app/cli/internal/core/domain"
)

// AuthStateStore owns the persisted authentication state: the current token
// pair and the logged-in flag. The gateway client reads and requests updates
// through this port but never stores tokens itself.
type AuthStateStore interface {
	// CurrentTokens returns the token pair currently in memory. ok is false
	// when no session exists.
	CurrentTokens() (pair domain.TokenPair, ok bool)

	// UpdateTokens replaces the stored token pair and persists it.
	UpdateTokens(access, refresh string) error

	// Logout discards the session, both in memory and at rest.
	Logout() error

	// Hydrated reports whether previously persisted state has finished
	// loading into memory.
	Hydrated() bool
}

// NotifyLevel classifies user-facing notifications.
type NotifyLevel int

const (
	NotifyInfo NotifyLevel = iota
	NotifyWarning
	NotifyError
)

// Notifier delivers user-facing messages. Implementations must not block
// the request path.
type Notifier interface {
	Notify(message string, level NotifyLevel)
}

// MessageCatalog resolves message keys to localized user-facing text.
type MessageCatalog interface {
	// Translate returns the message for key and whether the catalog has an
	// entry for it.
	Translate(key string) (string, bool)
}

// Navigator redirects the user interface after a session-ending event.
type Navigator interface {
	RedirectToLogin(reason string)
}

// TokenExchanger performs the refresh-token wire exchange. Separated from
// the refresh coordinator so the single-flight logic stays transport-free.
type TokenExchanger interface {
	Exchange(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}

// LogLevel controls logger verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger is the minimal structured logging port used across the client.
type Logger interface {
	Log(level LogLevel, message string, fields map[string]interface{})
}
