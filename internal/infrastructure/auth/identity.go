package auth

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"skylight.app/cli/internal/core/domain"
)

// identityFileName stores the opaque per-profile identifier next to the rest
// of the profile state.
const identityFileName = "client_id"

// identityCookieTTL matches the browser client: one year.
const identityCookieTTL = 365 * 24 * time.Hour

// ClientIdentity is the stable opaque identifier tagged onto every request.
// It is created once per profile, persisted to disk, and never changes for
// the profile's lifetime.
type ClientIdentity struct {
	id string
}

// LoadClientIdentity reads the profile's identity, creating and persisting a
// fresh one on first use.
func LoadClientIdentity(profileDir string) (*ClientIdentity, error) {
	if err := os.MkdirAll(profileDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	path := filepath.Join(profileDir, identityFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return &ClientIdentity{id: id}, nil
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return nil, fmt.Errorf("failed to persist identity: %w", err)
	}
	return &ClientIdentity{id: id}, nil
}

// ID returns the opaque identifier value.
func (c *ClientIdentity) ID() string { return c.id }

// Cookie returns the client_id cookie the gateway expects alongside the
// header: SameSite=Lax with a one-year expiry.
func (c *ClientIdentity) Cookie() *http.Cookie {
	return &http.Cookie{
		Name:     domain.IdentityCookieName,
		Value:    c.id,
		Path:     "/",
		Expires:  time.Now().Add(identityCookieTTL),
		SameSite: http.SameSiteLaxMode,
	}
}
