package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/connectors/core"
	"github.com/poiesic/connectors/transport"
)

// RetryWithBackoff executes an operation with exponential backoff retry logic.
// It attempts the operation up to maxAttempts times, waiting baseDelay * 2^(attempt-1)
// between attempts. Errors rejected by Retryable are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if the context
// is canceled.
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	return retryWithBackoff(ctx, slog.Default(), operation, maxAttempts, baseDelay)
}

// retryWithBackoff is RetryWithBackoff logging to logger.
func retryWithBackoff(ctx context.Context, logger *slog.Logger, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				logger.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}

		logger.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		delay := baseDelay << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Retryable reports whether err may succeed on a later attempt. Input and
// configuration errors never do; of the status errors only 429 and 5xx do.
// Transport failures are always retried.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, core.ErrEmptyMessage),
		errors.Is(err, core.ErrInvalidConfig),
		errors.Is(err, core.ErrUnsupportedModel),
		errors.Is(err, ErrEmbeddingMismatch):
		return false
	}
	if code := transport.StatusCode(err); code != 0 {
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	// A status or malformed response without a known code is not transient.
	if errors.Is(err, core.ErrUnexpectedStatus) || errors.Is(err, core.ErrMissingField) {
		return false
	}
	return true
}
