package hotels

import (
	"context"
	"errors"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/util"
	"go.uber.org/zap"
)

// RetryingClient bounds each fetch with a timeout and retries transient
// failures. The last FetchError is returned once the budget is spent.
type RetryingClient struct {
	inner  Client
	policy util.RetryPolicy
	logger *zap.Logger
}

// NewRetryingClient wraps inner with the timeout and retry budget from cfg
func NewRetryingClient(inner Client, cfg model.HotelsConfig, logger *zap.Logger) *RetryingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &RetryingClient{
		inner: inner,
		policy: util.RetryPolicy{
			Timeout:    timeout,
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  500 * time.Millisecond,
		},
		logger: logger,
	}
}

// WithSleep replaces the backoff sleep (used by tests)
func (r *RetryingClient) WithSleep(sleep func(context.Context, time.Duration) error) *RetryingClient {
	r.policy.Sleep = sleep
	return r
}

// Name returns the wrapped client name
func (r *RetryingClient) Name() string {
	return r.inner.Name()
}

// Fetch calls the wrapped client within the retry budget
func (r *RetryingClient) Fetch(ctx context.Context, query string) ([]model.HotelRecord, error) {
	attempt := 0
	records, err := util.Retry(ctx, r.policy, model.IsRetryable, func(ctx context.Context) ([]model.HotelRecord, error) {
		attempt++
		records, err := r.inner.Fetch(ctx, query)
		if err != nil {
			fe := asFetchError(ctx, query, err)
			r.logger.Warn("hotel fetch failed",
				zap.String("client", r.inner.Name()),
				zap.String("query", query),
				zap.Int("attempt", attempt),
				zap.String("code", string(fe.Code)),
				zap.Bool("retryable", fe.Retryable),
				zap.Error(fe.Err))
			return nil, fe
		}
		return records, nil
	})
	if err != nil {
		return nil, asFetchError(ctx, query, err)
	}
	return records, nil
}

func asFetchError(ctx context.Context, query string, err error) *model.FetchError {
	var fe *model.FetchError
	if errors.As(err, &fe) {
		// The attempt deadline surfaces as a plain transport error from some clients
		if fe.Code == model.CodeUnavailable && util.IsTimeout(err) {
			fe.Code = model.CodeTimeout
		}
		return fe
	}
	fe = &model.FetchError{Query: query, Code: model.CodeUnavailable, Retryable: true, Err: err}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		fe.Code, fe.Retryable = model.CodeCancelled, false
	case util.IsTimeout(err):
		fe.Code = model.CodeTimeout
	}
	return fe
}
