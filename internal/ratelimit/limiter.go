// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Limiter admits at most limit calls per rolling period. Acquire blocks the
// caller until a permit is free; it only fails when the context is canceled.
// Permits model call attempts, not outcomes: a caller whose subsequent work
// fails does not return its permit.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	period time.Duration

	// admissions holds the admission time of every permit still inside the
	// rolling window, oldest first.
	admissions []time.Time

	// now is swappable for tests.
	now func() time.Time
}

// New creates a limiter with the given (count, period) budget.
func New(limit int, period time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	return &Limiter{
		limit:  limit,
		period: period,
		now:    time.Now,
	}
}

// Acquire blocks until a permit is available under the budget, then consumes
// it. Waiters are not strictly ordered; whichever retries first after the
// window rolls forward wins the freed permit.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.admissions) < l.limit {
			l.admissions = append(l.admissions, now)
			l.mu.Unlock()
			return nil
		}

		// Budget exhausted; sleep until the oldest admission leaves the window.
		wait := l.admissions[0].Add(l.period).Sub(now)
		l.mu.Unlock()

		log.Debugf("Rate limit reached (%d/%s), waiting %s", l.limit, l.period, wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// prune drops admissions older than the rolling window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.period)
	i := 0
	for i < len(l.admissions) && !l.admissions[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.admissions = append(l.admissions[:0], l.admissions[i:]...)
	}
}

// Limit returns the configured permit count per period.
func (l *Limiter) Limit() int { return l.limit }

// Period returns the configured rolling window duration.
func (l *Limiter) Period() time.Duration { return l.period }
