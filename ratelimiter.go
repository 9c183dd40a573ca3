package qdispatch

import (
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
RateLimiter caps how fast calls reach a processor with a token bucket.
Each call consumes a token and tokens come back at a fixed rate, so a
remote or hardware processor sees a sustainable call rate with room for
short bursts.
*/
type RateLimiter struct {
	tokens     int           // Current number of available tokens
	maxTokens  int           // Maximum token capacity
	refillRate time.Duration // Time between token replenishments
	lastRefill time.Time     // Last time tokens were added
	mu         sync.Mutex    // Ensures thread-safe access to tokens
	metrics    *Metrics      // Dispatch metrics for adaptive behavior
}

/*
NewRateLimiter creates a rate limiter holding maxTokens tokens, one of which
is returned every refillRate.

	limiter := NewRateLimiter(100, 10*time.Millisecond) // 100 calls/second with burst capacity
*/
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: now.Add(-refillRate), // Start with a full refill period elapsed
	}
}

func (rl *RateLimiter) Observe(metrics *Metrics) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.metrics = metrics
}

// Limit consumes a token if one is available and reports whether the call must wait.
func (rl *RateLimiter) Limit() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return false
	}

	if rl.metrics != nil {
		errnie.Debug("rate limited after %v dispatched calls", rl.metrics.ExportMetrics()["call_count"])
	}
	return true
}

func (rl *RateLimiter) Renormalize() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
}

// Tokens returns the number of calls that may pass right now.
func (rl *RateLimiter) Tokens() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens
}

/*
refill adds tokens in proportion to the time since the last refill, up to
the bucket capacity. The caller must hold the lock.
*/
func (rl *RateLimiter) refill() {
	elapsedNs := time.Since(rl.lastRefill).Nanoseconds()
	refillRateNs := rl.refillRate.Nanoseconds()
	if refillRateNs <= 0 {
		rl.tokens = rl.maxTokens
		return
	}

	// Only round up if we're at least halfway through a period
	tokensToAdd := (elapsedNs + (refillRateNs / 2)) / refillRateNs

	if tokensToAdd > 0 {
		rl.tokens = min(rl.maxTokens, rl.tokens+int(tokensToAdd))
		rl.lastRefill = rl.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}
}
