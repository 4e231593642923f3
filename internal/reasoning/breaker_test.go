// v0
// internal/reasoning/breaker_test.go
package reasoning

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker("test", 3, time.Hour, discard())
	boom := errors.New("boom")
	fail := func(ctx context.Context) error { return boom }

	for i := 0; i < 3; i++ {
		if err := b.Execute(context.Background(), fail); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected op error, got %v", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("expected open after 3 failures, got %s", b.State())
	}

	// Open breaker fast-fails without invoking the op.
	called := false
	err := b.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable while open, got %v", err)
	}
	if called {
		t.Fatalf("open breaker must not invoke the op")
	}
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	b := NewBreaker("test", 1, time.Millisecond, discard())
	boom := errors.New("boom")
	if err := b.Execute(context.Background(), func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.State() != "open" {
		t.Fatalf("expected open, got %s", b.State())
	}

	time.Sleep(5 * time.Millisecond)
	if err := b.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("probe success must pass through: %v", err)
	}
	if b.State() != "closed" {
		t.Fatalf("expected closed after successful probe, got %s", b.State())
	}
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := NewBreaker("test", 1, time.Millisecond, discard())
	boom := errors.New("boom")
	b.Execute(context.Background(), func(ctx context.Context) error { return boom })

	time.Sleep(5 * time.Millisecond)
	b.Execute(context.Background(), func(ctx context.Context) error { return boom })
	if b.State() != "open" {
		t.Fatalf("failed probe must reopen, got %s", b.State())
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("test", 2, time.Hour, discard())
	boom := errors.New("boom")
	b.Execute(context.Background(), func(ctx context.Context) error { return boom })
	b.Execute(context.Background(), func(ctx context.Context) error { return nil })
	b.Execute(context.Background(), func(ctx context.Context) error { return boom })
	if b.State() != "closed" {
		t.Fatalf("non-consecutive failures must not open, got %s", b.State())
	}
}
