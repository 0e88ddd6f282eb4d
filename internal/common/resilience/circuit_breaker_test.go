package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/taskflow/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/taskflow/backend/internal/common/errors"
)

func newTestBreaker(mc *clock.MockClock) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  2,
		Timeout:    time.Second,
		ResetAfter: 10 * time.Second,
		Clock:      mc,
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	mc := clock.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := newTestBreaker(mc)
	boom := errors.New("connection refused")

	for i := 0; i < 2; i++ {
		if err := cb.Call(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("expected underlying error, got %v", err)
		}
	}

	called := false
	err := cb.Call(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("expected fn not to run while open")
	}

	mc.Advance(11 * time.Second)
	if err := cb.Call(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("expected breaker to close after reset window, got %v", err)
	}
}

func TestCircuitBreaker_IgnoresClientErrors(t *testing.T) {
	mc := clock.NewMockClock(time.Now())
	cb := newTestBreaker(mc)

	for i := 0; i < 5; i++ {
		_ = cb.Call(context.Background(), func(context.Context) error { return commonerrors.ErrUserNotFound })
	}

	if cb.IsOpen() {
		t.Error("expected breaker to stay closed for not-found outcomes")
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	mc := clock.NewMockClock(time.Now())
	cb := newTestBreaker(mc)
	boom := errors.New("timeout")

	_ = cb.Call(context.Background(), func(context.Context) error { return boom })
	_ = cb.Call(context.Background(), func(context.Context) error { return nil })
	_ = cb.Call(context.Background(), func(context.Context) error { return boom })

	if cb.IsOpen() {
		t.Error("expected success to reset the failure count")
	}
}
