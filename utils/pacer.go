package utils

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out calls to a job board. Wait is called once after every
// unit of work, including the last one.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay sleeps for a constant duration on every Wait.
type FixedDelay struct {
	Delay time.Duration
}

// NewFixedDelay creates a FixedDelay pacer.
func NewFixedDelay(d time.Duration) *FixedDelay {
	return &FixedDelay{Delay: d}
}

func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RateLimitPacer enforces a minimum spacing between requests with a token
// bucket instead of a blind sleep.
type RateLimitPacer struct {
	lim *rate.Limiter
}

// NewRateLimitPacer allows one request per interval with the given burst.
// The bucket starts empty: Wait runs after a request has already gone out,
// so even the first Wait must hold for the interval.
func NewRateLimitPacer(interval time.Duration, burst int) *RateLimitPacer {
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Every(interval), burst)
	lim.ReserveN(time.Now(), burst)
	return &RateLimitPacer{lim: lim}
}

func (p *RateLimitPacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
