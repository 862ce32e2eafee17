package services

import (
	"context"
	"sync"

	"skylight.app/cli/internal/core/domain"
	"skylight.app/cli/internal/core/ports"
)

// refreshOutcome is what every waiter queued on a refresh window receives:
// either the new access token or the shared failure.
type refreshOutcome struct {
	accessToken string
	err         error
}

// RefreshCoordinator serializes token refresh: no matter how many in-flight
// requests hit a 401 at the same time, at most one refresh exchange runs.
// Callers arriving while a refresh is underway are queued and settled
// together with the same outcome when the exchange completes.
//
// On a failed exchange the session is unrecoverable: every waiter is
// rejected, the auth state store is told to log out, and navigation is
// redirected to the login view, exactly once per window.
type RefreshCoordinator struct {
	exchanger ports.TokenExchanger
	state     ports.AuthStateStore
	nav       ports.Navigator
	logger    ports.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome
}

// NewRefreshCoordinator creates a coordinator in the Idle state.
func NewRefreshCoordinator(
	exchanger ports.TokenExchanger,
	state ports.AuthStateStore,
	nav ports.Navigator,
	logger ports.Logger,
) *RefreshCoordinator {
	return &RefreshCoordinator{
		exchanger: exchanger,
		state:     state,
		nav:       nav,
		logger:    logger,
	}
}

// AwaitToken joins the current refresh window, starting one if none is in
// progress, and blocks until the window settles. All callers queued on the
// same window observe the same outcome.
func (c *RefreshCoordinator) AwaitToken(ctx context.Context) (string, error) {
	ch := make(chan refreshOutcome, 1)

	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	start := !c.refreshing
	if start {
		c.refreshing = true
	}
	c.mu.Unlock()

	if start {
		// The exchange is shared by every waiter, so it must not die with
		// the first caller's context.
		go c.runRefresh(context.WithoutCancel(ctx))
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case out := <-ch:
		return out.accessToken, out.err
	}
}

// Refreshing reports whether a refresh window is currently open.
func (c *RefreshCoordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// PendingWaiters reports how many callers are queued on the current window.
func (c *RefreshCoordinator) PendingWaiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// runRefresh performs the single exchange for the open window and settles
// every queued waiter. Waiters that join while the exchange is in flight are
// picked up by the final flush because the waiter list is only drained here,
// after the state flips back to Idle.
func (c *RefreshCoordinator) runRefresh(ctx context.Context) {
	out := c.exchange(ctx)

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	if out.err != nil {
		c.logger.Log(ports.LogLevelWarn, "token refresh failed, ending session", map[string]interface{}{
			"waiters": len(waiters),
			"error":   out.err.Error(),
		})
		if err := c.state.Logout(); err != nil {
			c.logger.Log(ports.LogLevelError, "logout after failed refresh", map[string]interface{}{
				"error": err.Error(),
			})
		}
		c.nav.RedirectToLogin("session-expired")
	} else {
		c.logger.Log(ports.LogLevelDebug, "token refresh succeeded", map[string]interface{}{
			"waiters": len(waiters),
		})
	}

	// Channels are buffered, so rejection is delivered in arrival order
	// without blocking on any individual waiter.
	for _, ch := range waiters {
		ch <- out
	}
}

func (c *RefreshCoordinator) exchange(ctx context.Context) refreshOutcome {
	pair, ok := c.state.CurrentTokens()
	if !ok || pair.RefreshToken == "" {
		return refreshOutcome{err: &domain.RefreshError{Cause: domain.ErrNoRefreshToken}}
	}

	fresh, err := c.exchanger.Exchange(ctx, pair.RefreshToken)
	if err != nil {
		return refreshOutcome{err: &domain.RefreshError{Cause: err}}
	}

	if err := c.state.UpdateTokens(fresh.AccessToken, fresh.RefreshToken); err != nil {
		return refreshOutcome{err: &domain.RefreshError{Cause: err}}
	}
	return refreshOutcome{accessToken: fresh.AccessToken}
}
