package models

import (
	"context"
	"errors"
	"fmt"
)

// Error codes used in capture logs, run summaries and API responses.
const (
	ErrCodeTimeout          = "CAPTURE_TIMEOUT"
	ErrCodeNavigation       = "NAVIGATION_FAILED"
	ErrCodeCapture          = "CAPTURE_FAILED"
	ErrCodeBrowserCrash     = "BROWSER_CRASH"
	ErrCodeExhaustedRetries = "EXHAUSTED_RETRIES"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CaptureError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type CaptureError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// NewCaptureError creates a new CaptureError.
func NewCaptureError(code, message string, err error) *CaptureError {
	return &CaptureError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *CaptureError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// ErrorCode returns the code of the outermost CaptureError in err's chain,
// or ErrCodeInternal when there is none.
func ErrorCode(err error) string {
	var ce *CaptureError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}

// Categorize wraps a raw error into a CaptureError. Errors that already carry
// a code pass through unchanged; context expiry maps to ErrCodeTimeout;
// everything else gets code.
func Categorize(err error, code, msg string) *CaptureError {
	var ce *CaptureError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, context.DeadlineExceeded):
		return NewCaptureError(ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return NewCaptureError(ErrCodeTimeout, "capture canceled", err)
	default:
		return NewCaptureError(code, msg, err)
	}
}
