// Package ratelimit paces remote source fetches so querying a list of
// URLs stays polite to the host serving them.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter spaces out fetches at a sustained rate with a burst of one:
// the first fetch starts immediately, later ones wait their turn.
type Limiter struct {
	limiter *rate.Limiter
}

// New builds a limiter allowing requestsPerSecond sustained fetches.
// A zero or negative rate disables pacing.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1)}
}

// Wait blocks until the next fetch may start or the context ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Rate reports the configured fetches per second, zero meaning
// unlimited.
func (l *Limiter) Rate() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
