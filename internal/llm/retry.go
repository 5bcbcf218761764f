package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/util"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// RetryingProvider bounds every completion with a timeout and retries
// transient failures. All failures surface as *model.CompletionError.
type RetryingProvider struct {
	inner  Provider
	policy util.RetryPolicy
	logger *zap.Logger
}

// NewRetryingProvider wraps p using the timeout and retry budget from config
func NewRetryingProvider(p Provider, config Config) *RetryingProvider {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RetryingProvider{
		inner: p,
		policy: util.RetryPolicy{
			Timeout:    timeout,
			MaxRetries: config.MaxRetries,
			BaseDelay:  time.Second,
		},
		logger: config.logger(),
	}
}

// WithSleep replaces the backoff sleep (used by tests)
func (r *RetryingProvider) WithSleep(sleep func(context.Context, time.Duration) error) *RetryingProvider {
	r.policy.Sleep = sleep
	return r
}

// Name returns the wrapped provider name
func (r *RetryingProvider) Name() string {
	return r.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (r *RetryingProvider) IsAvailable(ctx context.Context) bool {
	return r.inner.IsAvailable(ctx)
}

// Complete calls the wrapped provider within the retry budget
func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	attempt := 0
	resp, err := util.Retry(ctx, r.policy, model.IsRetryable, func(ctx context.Context) (*CompletionResponse, error) {
		attempt++
		resp, err := r.inner.Complete(ctx, req)
		if err != nil {
			cerr := r.classify(ctx, err)
			r.logger.Warn("completion failed",
				zap.String("provider", r.inner.Name()),
				zap.Int("attempt", attempt),
				zap.String("code", string(cerr.Code)),
				zap.Bool("retryable", cerr.Retryable),
				zap.Error(err))
			return nil, cerr
		}
		return resp, nil
	})
	if err != nil {
		var cerr *model.CompletionError
		if errors.As(err, &cerr) {
			return nil, cerr
		}
		// Retry gave up before the first attempt
		return nil, r.classify(ctx, err)
	}
	return resp, nil
}

// classify maps a provider error onto a CompletionError
func (r *RetryingProvider) classify(ctx context.Context, err error) *model.CompletionError {
	cerr := &model.CompletionError{Provider: r.inner.Name(), Code: model.CodeUnavailable, Err: err}

	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		cerr.Code = model.CodeCancelled
		return cerr
	}
	if util.IsTimeout(err) {
		cerr.Code, cerr.Retryable = model.CodeTimeout, true
		return cerr
	}
	if errors.Is(err, ErrEmptyResponse) {
		cerr.Code, cerr.Retryable = model.CodeEmpty, true
		return cerr
	}

	status := statusCode(err)
	switch {
	case status == http.StatusTooManyRequests:
		cerr.Code, cerr.Retryable = model.CodeRateLimited, true
	case status >= 500:
		cerr.Retryable = true
	case status >= 400:
		cerr.Code = model.CodeBadResponse
	default:
		// Connection-level failures
		cerr.Retryable = status == 0
	}
	return cerr
}

// statusCode extracts the HTTP status from provider errors, 0 if none
func statusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return oaErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
