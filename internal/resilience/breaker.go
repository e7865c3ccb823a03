// Package resilience guards calls to external services that may stay
// down for a while, such as the PDF conversion backend.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// Breaker trips after a streak of consecutive failures and rejects
// calls until a cooldown elapses, then admits a single probe. The
// converter client wraps every conversion in one; a rejected call
// surfaces as a conversion error, which generation degrades to
// DOCX-only output.
type Breaker struct {
	mu       sync.Mutex
	state    state
	streak   int
	trip     int
	cooldown time.Duration
	openedAt time.Time
	now      func() time.Time
}

// NewBreaker returns a closed breaker that opens after trip consecutive
// failures and probes again once cooldown has passed.
func NewBreaker(trip int, cooldown time.Duration) *Breaker {
	return &Breaker{trip: trip, cooldown: cooldown, now: time.Now}
}

// Execute runs fn unless the breaker is open. Success closes the
// breaker and clears the streak; a failure while half-open reopens it
// immediately.
func (b *Breaker) Execute(fn func() error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}
	err := fn()
	b.observe(err)
	return err
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = stateHalfOpen
	}
	return true
}

func (b *Breaker) observe(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = stateClosed
		b.streak = 0
		return
	}
	b.streak++
	if b.state == stateHalfOpen || b.streak >= b.trip {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
