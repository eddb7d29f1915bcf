package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soubim/decisiond/internal/core/domain"
	"github.com/soubim/decisiond/internal/metrics"
)

// Retry configuration for provider calls. The delay doubles each
// attempt: 1s, 2s, 4s, 8s before the final try.
const (
	MaxAttempts      = 5
	RetryBaseBackoff = 1 * time.Second
)

// Caller wraps every request to a polled provider API. It waits on the
// service's token bucket, executes the request, and retries transient
// failures (429/500/503) with doubling backoff up to MaxAttempts.
// Non-retryable errors surface immediately, consuming no retry budget.
type Caller struct {
	service ServiceType
	limiter *RateLimiter

	// onUnauthorized runs before an ErrUnauthorized surfaces, so a
	// cached credential can be dropped ahead of the next cycle.
	onUnauthorized func()

	// sleep is swapped in tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCaller creates a call wrapper for a service.
func NewCaller(service ServiceType) *Caller {
	return &Caller{
		service: service,
		limiter: NewRateLimiter(service),
		sleep:   sleepCtx,
	}
}

// OnUnauthorized registers a callback invoked when a call fails with
// invalid credentials.
func (c *Caller) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Do executes fn under the rate limit with retry. fn is the single
// provider request; it must be safe to invoke repeatedly.
func (c *Caller) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			metrics.ProviderCalls.WithLabelValues(string(c.service), "ok").Inc()
			return nil
		}

		if !IsRetryable(err) {
			metrics.ProviderCalls.WithLabelValues(string(c.service), "error").Inc()
			wrapped := WrapError(err)
			if errors.Is(wrapped, ErrUnauthorized) && c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return wrapped
		}

		if IsRateLimited(err) {
			c.limiter.RecordRateLimitError(0)
		}

		lastErr = err
		metrics.ProviderCalls.WithLabelValues(string(c.service), "retried").Inc()

		if attempt < MaxAttempts-1 {
			backoff := RetryBaseBackoff << attempt
			if err := c.sleep(ctx, backoff); err != nil {
				return err
			}
		}
	}

	metrics.ProviderCalls.WithLabelValues(string(c.service), "error").Inc()
	return fmt.Errorf("%w after %d attempts: %w", domain.ErrRetryExhausted, MaxAttempts, WrapError(lastErr))
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
