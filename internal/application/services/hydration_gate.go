package services

import (
	"context"
	"time"

	"skylight.app/cli/internal/core/ports"
)

// Default hydration gate tuning: poll the store every 20ms, give up and
// proceed after 2s. A profile whose state file never loads still gets to
// send requests, just unauthenticated.
const (
	DefaultHydrationTimeout  = 2 * time.Second
	DefaultHydrationInterval = 20 * time.Millisecond
)

// HydrationGate holds outgoing requests until the auth state store has
// finished loading persisted state, or a bounded wait elapses. Polling keeps
// the store free of signaling machinery; the fixed latency is bounded by the
// interval.
type HydrationGate struct {
	state    ports.AuthStateStore
	timeout  time.Duration
	interval time.Duration
}

// NewHydrationGate creates a gate with the default timeout and interval.
func NewHydrationGate(state ports.AuthStateStore) *HydrationGate {
	return NewHydrationGateWithTiming(state, DefaultHydrationTimeout, DefaultHydrationInterval)
}

// NewHydrationGateWithTiming creates a gate with explicit tuning. Used by
// tests to keep the timeout path fast.
func NewHydrationGateWithTiming(state ports.AuthStateStore, timeout, interval time.Duration) *HydrationGate {
	return &HydrationGate{state: state, timeout: timeout, interval: interval}
}

// Await returns once the store reports hydration, or after the bounded wait.
// The only error is context cancellation; the timeout path is a normal
// return.
func (g *HydrationGate) Await(ctx context.Context) error {
	if g.state.Hydrated() {
		return nil
	}

	deadline := time.NewTimer(g.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			if g.state.Hydrated() {
				return nil
			}
		}
	}
}
