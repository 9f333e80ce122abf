// Package ratelimit implements the token-bucket rate limiter described by
// C3: continuous refill, a short wait before failing rather than failing
// immediately, and cancellation via the caller's context.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/nicholaswilde/rescue-groups-mcp/internal/mcperror"
)

// shortWaitThreshold is the longest a caller will be made to wait before
// Acquire fails with RateLimited instead of succeeding late.
const shortWaitThreshold = time.Second

// Limiter gates upstream calls behind a token bucket. The zero value is not
// usable; construct with New.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a Limiter allowing requests tokens per window, with a burst
// equal to requests so a cold start can spend the whole budget at once —
// matching the continuous-refill token bucket in C3.
func New(requests int, window time.Duration) *Limiter {
	r := rate.Limit(float64(requests) / window.Seconds())
	return &Limiter{bucket: rate.NewLimiter(r, requests)}
}

// Acquire consumes one token. If a token is immediately available it
// returns nil right away. If the wait to the next token is within the
// short-wait threshold, Acquire blocks for that long and then succeeds. If
// the wait would exceed the threshold, Acquire fails fast with a
// RateLimited error rather than making the caller wait — no token is
// consumed on this path. During a short wait, Acquire fails if ctx is
// canceled or its deadline elapses first, and the reserved token is
// returned; ctx is not consulted when a token is immediately available.
func (l *Limiter) Acquire(ctx context.Context) error {
	reservation := l.bucket.Reserve()
	delay := reservation.Delay()

	if delay <= 0 {
		return nil
	}
	if delay > shortWaitThreshold {
		reservation.Cancel()
		return mcperror.RateLimited("exceeded; retry after %s", delay.Round(time.Millisecond))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		reservation.Cancel()
		return mcperror.Wrap(mcperror.KindRateLimited, ctx.Err(), "rate limit wait canceled")
	}
}
