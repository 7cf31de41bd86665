// Package channels holds the transport-agnostic pieces shared by chat
// channel implementations.
package channels

import (
	"fmt"
	"time"

	"github.com/lmoroni/cactusbot/internal/logger"
)

// ErrorDetails describes a channel delivery failure in a channel-agnostic
// way, so callers can decide whether and when to retry.
type ErrorDetails interface {
	// Error returns a textual description of the failure
	Error() string

	// IsRetryable reports whether the send may be repeated
	IsRetryable() bool

	// RetryAfter returns the delay to wait before retrying
	RetryAfter() time.Duration

	// LogFields returns fields for structured logging
	LogFields() []logger.Field
}

// TelegramErrorDetails describes a Telegram API failure.
type TelegramErrorDetails struct {
	ErrorCode       int       // API error code (400, 403, 429, ...)
	Description     string    // Error description from Telegram
	RetryAfterSec   int       // Delay in seconds (rate limiting)
	OriginalMessage string    // Message that triggered the failure
	ChatID          int64     // Chat identifier
	Timestamp       time.Time // When the failure happened
}

func (d *TelegramErrorDetails) Error() string {
	return fmt.Sprintf("telegram API error %d: %s", d.ErrorCode, d.Description)
}

// IsRetryable reports whether the send may be repeated. Rate limiting and
// server-side errors are retryable; client errors are not.
func (d *TelegramErrorDetails) IsRetryable() bool {
	return d.ErrorCode == 429 || (d.ErrorCode >= 500 && d.ErrorCode < 600)
}

// RetryAfter returns the delay to wait before retrying.
func (d *TelegramErrorDetails) RetryAfter() time.Duration {
	if d.RetryAfterSec > 0 {
		return time.Duration(d.RetryAfterSec) * time.Second
	}
	if d.ErrorCode >= 500 && d.ErrorCode < 600 {
		return 5 * time.Second
	}
	return 0
}

// LogFields returns fields for structured logging.
func (d *TelegramErrorDetails) LogFields() []logger.Field {
	return []logger.Field{
		{Key: "error_code", Value: d.ErrorCode},
		{Key: "error_description", Value: d.Description},
		{Key: "retry_after", Value: d.RetryAfterSec},
		{Key: "chat_id", Value: d.ChatID},
	}
}
