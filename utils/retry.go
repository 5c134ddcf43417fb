package utils

import (
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// MaxDelay caps the back-off between attempts. Zero means no cap.
	MaxDelay time.Duration
	// Retryable reports whether a failure may succeed on a later attempt.
	// Nil treats every failure as retryable.
	Retryable func(error) bool
	Logger    *Logger
}

// Do runs fn until it succeeds, fails permanently, or MaxAttempts is spent,
// doubling the delay after each failure.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := r.BaseDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if r.Retryable != nil && !r.Retryable(err) {
			return fmt.Errorf("%s: permanent failure on attempt %d: %w", operationName, attempt, err)
		}
		if attempt == attempts {
			return fmt.Errorf("%s: giving up after %d attempts: %w", operationName, attempts, err)
		}

		if r.Logger != nil {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
				operationName, attempt, attempts, err, delay)
		}
		time.Sleep(delay)
		delay *= 2
		if r.MaxDelay > 0 && delay > r.MaxDelay {
			delay = r.MaxDelay
		}
	}
}
