package resilience

import (
	"errors"
	"testing"
	"time"
)

var errConverterDown = errors.New("converter unreachable")

func TestClosedBreakerRunsCalls(t *testing.T) {
	b := NewBreaker(3, time.Second)

	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !called {
		t.Fatal("fn was not called")
	}
}

func TestBreakerOpensAfterFailureStreak(t *testing.T) {
	b := NewBreaker(3, time.Second)

	for range 3 {
		_ = b.Execute(func() error { return errConverterDown })
	}

	err := b.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerProbesAfterCooldown(t *testing.T) {
	now := time.Now()
	b := NewBreaker(2, time.Second)
	b.now = func() time.Time { return now }

	for range 2 {
		_ = b.Execute(func() error { return errConverterDown })
	}

	// Inside the cooldown calls are still rejected.
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}

	now = now.Add(2 * time.Second)

	// Past the cooldown a single probe runs; its success closes the
	// breaker again.
	called := false
	err := b.Execute(func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !called {
		t.Fatal("probe was not called")
	}

	b.mu.Lock()
	if b.state != stateClosed {
		t.Fatalf("state = %d, want closed", b.state)
	}
	b.mu.Unlock()
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	now := time.Now()
	b := NewBreaker(2, time.Second)
	b.now = func() time.Time { return now }

	for range 2 {
		_ = b.Execute(func() error { return errConverterDown })
	}
	now = now.Add(2 * time.Second)

	_ = b.Execute(func() error { return errConverterDown })

	b.mu.Lock()
	if b.state != stateOpen {
		t.Fatalf("state = %d, want open", b.state)
	}
	b.mu.Unlock()

	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen after failed probe", err)
	}
}

func TestBreakerSuccessClearsStreak(t *testing.T) {
	b := NewBreaker(3, time.Second)

	_ = b.Execute(func() error { return errConverterDown })
	_ = b.Execute(func() error { return errConverterDown })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errConverterDown })
	_ = b.Execute(func() error { return errConverterDown })

	// Four failures total but never three in a row.
	called := false
	if err := b.Execute(func() error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !called {
		t.Fatal("fn was not called")
	}
}
