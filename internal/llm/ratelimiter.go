package llm

import (
	"sync"
	"time"
)

// RateLimitExceededError is returned when the request limit has been exceeded.
type RateLimitExceededError struct {
	RetryAfter time.Duration
}

func (e *RateLimitExceededError) Error() string {
	return "rate limit exceeded"
}

// TokenBucketRateLimiter implements the token bucket algorithm for rate limiting.
type TokenBucketRateLimiter struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillRate   time.Duration // Interval for adding tokens
	refillAmount int           // Number of tokens added per interval
	lastRefill   time.Time     // Time of the last refill
	mu           sync.Mutex
}

// NewTokenBucketRateLimiter creates a new rate limiter.
// capacity: maximum number of tokens
// refillInterval: interval at which tokens are added (e.g. time.Second for 1 token/sec)
// refillAmount: number of tokens added per interval
func NewTokenBucketRateLimiter(capacity int, refillInterval time.Duration, refillAmount int) *TokenBucketRateLimiter {
	return &TokenBucketRateLimiter{
		capacity:     capacity,
		tokens:       capacity,
		refillRate:   refillInterval,
		refillAmount: refillAmount,
		lastRefill:   time.Now(),
	}
}

// TryAcquire attempts to acquire a token. Returns true if a token is available.
// If no tokens are available, returns false and the wait time until the next refill.
func (r *TokenBucketRateLimiter) TryAcquire() (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastRefill)

	if elapsed >= r.refillRate {
		intervals := int(elapsed / r.refillRate)

		tokensToAdd := intervals * r.refillAmount
		if r.tokens+tokensToAdd > r.capacity {
			r.tokens = r.capacity
		} else {
			r.tokens += tokensToAdd
		}

		// Keep the remainder so refill timing stays accurate
		r.lastRefill = now.Add(-elapsed % r.refillRate)
	}

	if r.tokens > 0 {
		r.tokens--
		return true, 0
	}

	timeToNextRefill := r.refillRate - (now.Sub(r.lastRefill) % r.refillRate)

	return false, timeToNextRefill
}

// Reset restores the limiter to its initial state.
func (r *TokenBucketRateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens = r.capacity
	r.lastRefill = time.Now()
}

// GetAvailableTokens returns the current number of available tokens.
func (r *TokenBucketRateLimiter) GetAvailableTokens() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.tokens
}
