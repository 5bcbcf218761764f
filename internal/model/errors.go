package model

import (
	"errors"
	"fmt"
)

// ErrorCode classifies upstream failures
type ErrorCode string

const (
	CodeTimeout       ErrorCode = "timeout"
	CodeRateLimited   ErrorCode = "rate_limited"
	CodeUnavailable   ErrorCode = "unavailable"
	CodeBadResponse   ErrorCode = "bad_response"
	CodeEmpty         ErrorCode = "empty_response"
	CodeCancelled     ErrorCode = "cancelled"
	CodeNotConfigured ErrorCode = "not_configured"
)

// FetchError is returned by hotel-data clients. The pipeline recovers from
// it by continuing with unavailable ground truth.
type FetchError struct {
	Query     string
	Code      ErrorCode
	Retryable bool
	Err       error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch hotels for %q: %s", e.Query, e.Code)
	}
	return fmt.Sprintf("fetch hotels for %q: %s: %v", e.Query, e.Code, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CompletionError is the only error a turn can fail with
type CompletionError struct {
	Provider  string
	Code      ErrorCode
	Retryable bool
	Err       error
}

func (e *CompletionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s completion: %s", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s completion: %s: %v", e.Provider, e.Code, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// UserMessage returns a message that is safe to show to the end user
func (e *CompletionError) UserMessage() string {
	switch e.Code {
	case CodeRateLimited:
		return "The assistant is receiving too many requests right now. Please try again in a moment."
	case CodeTimeout:
		return "The assistant took too long to answer. Please try again."
	case CodeCancelled:
		return "The request was cancelled."
	default:
		return "The assistant is temporarily unavailable. Please try again later."
	}
}

// ParseError describes why model output was not structured.
// It is logged and never returned to callers.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse model output: " + e.Reason
	}
	return fmt.Sprintf("parse model output: %s: %v", e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a retryable upstream failure
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}
