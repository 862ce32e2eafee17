package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes the gateway client distinguishes.
var (
	// ErrSessionExpired marks a refresh exchange that failed; the session
	// cannot be recovered and the user has been logged out.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoRefreshToken is returned when a refresh is required but no
	// refresh token is available.
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// NetworkError wraps a transport-level failure where no response was
// received. It is propagated to the caller as-is.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a structured non-2xx response from the gateway. It carries
// enough for programmatic handling by the caller; user-facing notification
// is a separate side channel handled by the error classifier.
type APIError struct {
	Status  int
	Msg     string
	BizCode string
	Body    []byte
}

func (e *APIError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.BizCode != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.BizCode, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, msg)
}

// Unauthorized reports whether this is a 401 response.
func (e *APIError) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// RefreshError wraps the cause of a failed refresh exchange. Every caller
// queued on the refresh window receives the same instance; errors.Is reports
// ErrSessionExpired for all of them.
type RefreshError struct {
	Cause error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Cause)
}

func (e *RefreshError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrSessionExpired) match any refresh failure.
func (e *RefreshError) Is(target error) bool { return target == ErrSessionExpired }
