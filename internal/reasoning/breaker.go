// v1
// internal/reasoning/breaker.go
package reasoning

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// breaker state machine: Closed -> Open after maxFailures consecutive
// failures, Open -> HalfOpen after resetTimeout, HalfOpen -> Closed on the
// first success. While Open every Execute fast-fails without touching the
// service, so a dead endpoint costs one timeout per reset window instead of
// one per room.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateClosed:
		return "closed"
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

type Breaker struct {
	name        string
	maxFailures int
	resetAfter  time.Duration
	lg          *slog.Logger

	mu          sync.Mutex
	state       breakerState
	recentFails int
	openedAt    time.Time
}

func NewBreaker(name string, maxFailures int, resetAfter time.Duration, lg *slog.Logger) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	if resetAfter <= 0 {
		resetAfter = 30 * time.Second
	}
	return &Breaker{name: name, maxFailures: maxFailures, resetAfter: resetAfter, lg: lg, state: stateClosed}
}

// Execute runs op under the breaker. A fast-fail returns ErrUnavailable.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	b.mu.Lock()
	if b.state == stateOpen {
		if time.Since(b.openedAt) < b.resetAfter {
			b.mu.Unlock()
			return ErrUnavailable
		}
		b.state = stateHalfOpen
		b.lg.Info("breaker probing", "name", b.name, "failures", b.recentFails)
	}
	b.mu.Unlock()

	err := op(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		if b.state != stateClosed {
			b.lg.Info("breaker closed", "name", b.name)
		}
		b.state = stateClosed
		b.recentFails = 0
		return nil
	}
	b.recentFails++
	if b.state == stateHalfOpen || b.recentFails >= b.maxFailures {
		b.state = stateOpen
		b.openedAt = time.Now()
		b.lg.Warn("breaker opened", "name", b.name, "failures", b.recentFails, "error", err)
	}
	return err
}

// State is exposed for tests and the /status surface.
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}
