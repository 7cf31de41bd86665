package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketRateLimiter_AllowsUpToCapacity(t *testing.T) {
	limiter := NewTokenBucketRateLimiter(3, time.Hour, 1)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.TryAcquire()
		assert.True(t, allowed, "call %d should be allowed", i)
	}

	allowed, wait := limiter.TryAcquire()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestTokenBucketRateLimiter_Refill(t *testing.T) {
	limiter := NewTokenBucketRateLimiter(1, 10*time.Millisecond, 1)

	allowed, _ := limiter.TryAcquire()
	assert.True(t, allowed)

	allowed, _ = limiter.TryAcquire()
	assert.False(t, allowed)

	time.Sleep(25 * time.Millisecond)

	allowed, _ = limiter.TryAcquire()
	assert.True(t, allowed)
}

func TestTokenBucketRateLimiter_Reset(t *testing.T) {
	limiter := NewTokenBucketRateLimiter(2, time.Hour, 1)

	limiter.TryAcquire()
	limiter.TryAcquire()
	assert.Equal(t, 0, limiter.GetAvailableTokens())

	limiter.Reset()
	assert.Equal(t, 2, limiter.GetAvailableTokens())
}
