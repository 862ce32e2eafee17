package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"skylight.app/cli/internal/core/domain"
	"skylight.app/cli/internal/core/ports"
)

const stateFileName = ".auth_state"

// persistedState is the on-disk shape of the auth state, encrypted at rest.
type persistedState struct {
	Tokens  domain.TokenPair `json:"tokens"`
	SavedAt time.Time        `json:"saved_at"`
}

// FileAuthStateStore persists the session token pair to an encrypted file in
// the profile directory. Loading happens asynchronously at construction;
// Hydrated flips to true once the load settles, which is what the hydration
// gate observes before releasing requests.
type FileAuthStateStore struct {
	statePath  string
	encryptKey []byte
	logger     ports.Logger

	mu       sync.RWMutex
	tokens   domain.TokenPair
	loggedIn bool
	hydrated bool
}

// NewFileAuthStateStore creates the store and kicks off hydration in the
// background.
func NewFileAuthStateStore(profileDir string, logger ports.Logger) (*FileAuthStateStore, error) {
	if err := os.MkdirAll(profileDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	s := &FileAuthStateStore{
		statePath:  filepath.Join(profileDir, stateFileName),
		encryptKey: deriveEncryptionKey(),
		logger:     logger,
	}
	go s.hydrate()
	return s, nil
}

// hydrate loads persisted state into memory. Any failure (missing file,
// undecryptable content from another machine) degrades to a clean
// logged-out state; hydration still completes.
func (s *FileAuthStateStore) hydrate() {
	state, err := s.readState()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && state != nil && !state.Tokens.IsZero() {
		s.tokens = state.Tokens
		s.loggedIn = true
	} else if err != nil {
		s.logger.Log(ports.LogLevelDebug, "no usable persisted session", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.hydrated = true
}

// Hydrated reports whether the persisted state load has settled.
func (s *FileAuthStateStore) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// CurrentTokens returns the in-memory token pair.
func (s *FileAuthStateStore) CurrentTokens() (domain.TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.loggedIn
}

// UpdateTokens replaces the token pair and persists it.
func (s *FileAuthStateStore) UpdateTokens(access, refresh string) error {
	s.mu.Lock()
	s.tokens = domain.TokenPair{AccessToken: access, RefreshToken: refresh}
	s.loggedIn = true
	tokens := s.tokens
	s.mu.Unlock()

	return s.writeState(&persistedState{Tokens: tokens, SavedAt: time.Now()})
}

// Logout discards the session in memory and removes the state file.
func (s *FileAuthStateStore) Logout() error {
	s.mu.Lock()
	s.tokens = domain.TokenPair{}
	s.loggedIn = false
	s.mu.Unlock()

	if err := os.Remove(s.statePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

func (s *FileAuthStateStore) readState() (*persistedState, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	decrypted, err := decrypt(s.encryptKey, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt state: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(decrypted, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

func (s *FileAuthStateStore) writeState(state *persistedState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	encrypted, err := encrypt(s.encryptKey, data)
	if err != nil {
		return fmt.Errorf("failed to encrypt state: %w", err)
	}

	if err := os.WriteFile(s.statePath, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func encrypt(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func decrypt(key, data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// deriveEncryptionKey generates a machine-specific key so the state file is
// not portable between machines in plain form.
func deriveEncryptionKey() []byte {
	hostname, _ := os.Hostname()
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME") // Windows
	}

	keyMaterial := fmt.Sprintf("skylight-cli:%s:%s", hostname, user)
	hash := sha256.Sum256([]byte(keyMaterial))
	return hash[:]
}

// MemoryAuthStateStore is an in-memory store used by tests and by callers
// that opt out of persistence.
type MemoryAuthStateStore struct {
	mu       sync.RWMutex
	tokens   domain.TokenPair
	loggedIn bool
	hydrated bool
}

// NewMemoryAuthStateStore creates an already-hydrated empty store.
func NewMemoryAuthStateStore() *MemoryAuthStateStore {
	return &MemoryAuthStateStore{hydrated: true}
}

// SetHydrated overrides the hydration flag; tests use it to exercise the
// hydration gate.
func (s *MemoryAuthStateStore) SetHydrated(hydrated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = hydrated
}

func (s *MemoryAuthStateStore) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

func (s *MemoryAuthStateStore) CurrentTokens() (domain.TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens, s.loggedIn
}

func (s *MemoryAuthStateStore) UpdateTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = domain.TokenPair{AccessToken: access, RefreshToken: refresh}
	s.loggedIn = true
	return nil
}

func (s *MemoryAuthStateStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = domain.TokenPair{}
	s.loggedIn = false
	return nil
}

var (
	_ ports.AuthStateStore = (*FileAuthStateStore)(nil)
	_ ports.AuthStateStore = (*MemoryAuthStateStore)(nil)
)
