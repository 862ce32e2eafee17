package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skylight.app/cli/internal/core/domain"
)

// hydratingState lets tests flip the hydration flag mid-wait.
type hydratingState struct {
	mu       sync.Mutex
	hydrated bool
}

func (s *hydratingState) setHydrated(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = v
}

func (s *hydratingState) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

func (s *hydratingState) CurrentTokens() (domain.TokenPair, bool) { return domain.TokenPair{}, false }
func (s *hydratingState) UpdateTokens(string, string) error       { return nil }
func (s *hydratingState) Logout() error                           { return nil }

func TestHydrationGate_AlreadyHydratedReturnsImmediately(t *testing.T) {
	state := &hydratingState{hydrated: true}
	gate := NewHydrationGate(state)

	start := time.Now()
	require.NoError(t, gate.Await(context.Background()))
	assert.Less(t, time.Since(start), DefaultHydrationInterval, "no polling delay when already hydrated")
}

func TestHydrationGate_ReleasesWhenStoreHydrates(t *testing.T) {
	state := &hydratingState{}
	gate := NewHydrationGateWithTiming(state, time.Second, 5*time.Millisecond)

	go func() {
		time.Sleep(30 * time.Millisecond)
		state.setHydrated(true)
	}()

	start := time.Now()
	require.NoError(t, gate.Await(context.Background()))
	assert.Less(t, time.Since(start), 500*time.Millisecond, "released by hydration, not the timeout")
}

func TestHydrationGate_TimeoutReleasesUnhydrated(t *testing.T) {
	state := &hydratingState{}
	gate := NewHydrationGateWithTiming(state, 50*time.Millisecond, 5*time.Millisecond)

	start := time.Now()
	require.NoError(t, gate.Await(context.Background()), "timeout is a normal release, not an error")
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestHydrationGate_ContextCancellation(t *testing.T) {
	state := &hydratingState{}
	gate := NewHydrationGateWithTiming(state, 10*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	assert.ErrorIs(t, gate.Await(ctx), context.Canceled)
}
