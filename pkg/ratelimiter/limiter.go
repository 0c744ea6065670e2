package ratelimiter

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound requests to a single endpoint.
type RateLimiter struct {
	limiter *rate.Limiter
	rps     int
	burst   int
}

// New returns a limiter allowing rps requests per second with the given
// burst. A burst below 1 is raised to 1.
func New(rps, burst int) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// TryAcquire takes a token without blocking.
func (rl *RateLimiter) TryAcquire() bool {
	return rl.limiter.Allow()
}

func (rl *RateLimiter) Limits() (rps, burst int) {
	return rl.rps, rl.burst
}

var (
	sharedMu sync.Mutex
	shared   = map[string]*RateLimiter{}
)

// Shared returns one limiter per (url, rps, burst) for the process so that
// the same endpoint configured under several chains is throttled once.
func Shared(url string, rps, burst int) *RateLimiter {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	key := fmt.Sprintf("%s_%d_%d", url, rps, burst)
	if rl, ok := shared[key]; ok {
		return rl
	}
	rl := New(rps, burst)
	shared[key] = rl
	return rl
}
