// Package retry provides a retry mechanism for LLM calls with exponential
// backoff.
package retry

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
)

// Config represents retry configuration. Zero fields fall back to the
// defaults (3 attempts, 1s initial backoff, 10s cap).
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DoWithRetry executes the given function until it succeeds, the error is
// non-retryable, or the attempts are exhausted. Context cancellation is
// checked between attempts.
func DoWithRetry(ctx context.Context, fn func() (string, error), cfg Config) (string, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialDelay
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxDelay
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return "", err
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-time.After(calculateBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

// IsRetryable classifies an error by its message. Timeouts, connection
// failures and rate limits are retryable; authentication, bad requests and
// explicit cancellation are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errLower := strings.ToLower(err.Error())

	nonRetryablePatterns := []string{
		"401",
		"403",
		"400",
		"404",
		"context canceled",
	}
	for _, pattern := range nonRetryablePatterns {
		if strings.Contains(errLower, pattern) {
			return false
		}
	}

	retryablePatterns := []string{
		"context deadline exceeded",
		"deadline exceeded",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"eof",
		"429",
		"too many requests",
		"rate limit",
		"connection",
		"network",
		"unavailable",
		"50", // 5xx server errors
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errLower, pattern) {
			return true
		}
	}

	return false
}

// calculateBackoff returns 2^attempt * initial, capped at max.
func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	backoff := time.Duration(1<<uint(attempt)) * initial
	if backoff > max {
		return max
	}
	return backoff
}
