package cli

import (
	"sync"

	"skylight.app/cli/internal/core/ports"
)

// SessionNavigator is the CLI counterpart of the web client's redirect to
// the login view: it tells the user to log in again and remembers why the
// session ended so `sky status` can report it.
type SessionNavigator struct {
	notifier ports.Notifier

	mu     sync.Mutex
	reason string
}

// NewSessionNavigator routes redirect events through the notifier.
func NewSessionNavigator(notifier ports.Notifier) *SessionNavigator {
	return &SessionNavigator{notifier: notifier}
}

// RedirectToLogin records the reason and tells the user to re-authenticate.
func (n *SessionNavigator) RedirectToLogin(reason string) {
	n.mu.Lock()
	n.reason = reason
	n.mu.Unlock()

	n.notifier.Notify("Your session has expired. Run `sky login` to sign in again.", ports.NotifyWarning)
}

// LastReason returns the most recent redirect reason, empty if none.
func (n *SessionNavigator) LastReason() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reason
}

var _ ports.Navigator = (*SessionNavigator)(nil)
