// Package ai provides the gateway client for model calls and error handling.
package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error categories for gateway operations.
var (
	// ErrRateLimited indicates the gateway rate limit was hit.
	ErrRateLimited = errors.New("rate limited")

	// ErrQuotaExhausted indicates the gateway account has no credits left.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrInvalidAPIKey indicates the gateway API key is invalid or expired.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrProviderError indicates a general upstream provider error.
	ErrProviderError = errors.New("provider error")

	// ErrMalformedResponse indicates the model reply did not carry the
	// expected tool call or image payload.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrTransport indicates the gateway could not be reached at all.
	ErrTransport = errors.New("transport error")
)

// Error represents an error from the AI gateway with user-friendly messaging.
type Error struct {
	// Original error
	Err error

	// HTTP status code from the gateway (0 when the call never completed)
	StatusCode int

	// Model that was being used
	Model string

	// User-friendly message to display
	UserMessage string

	// Raw error message (for logs)
	RawMessage string

	// Error category for classification (rate_limit, quota_exhausted, etc.)
	Category string

	// Whether the same call may succeed if repeated
	Retryable bool
}

func (e *Error) Error() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown AI gateway error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a failed gateway call to a categorized Error.
// The raw body is kept for logging but never shown to users.
func Classify(statusCode int, model, rawBody string) *Error {
	aiErr := &Error{
		StatusCode: statusCode,
		Model:      model,
		RawMessage: rawBody,
	}

	switch statusCode {
	case http.StatusTooManyRequests: // 429
		aiErr.Err = ErrRateLimited
		aiErr.Category = "rate_limit"
		aiErr.UserMessage = "Rate limit exceeded. Please try again later."
		aiErr.Retryable = true

	case http.StatusPaymentRequired: // 402
		aiErr.Err = ErrQuotaExhausted
		aiErr.Category = "quota_exhausted"
		aiErr.UserMessage = "AI credits exhausted. Please add more credits."
		aiErr.Retryable = false

	case http.StatusUnauthorized, http.StatusForbidden: // 401, 403
		aiErr.Err = ErrInvalidAPIKey
		aiErr.Category = "invalid_key"
		aiErr.UserMessage = "Invalid AI gateway API key. Please check the service configuration."
		aiErr.Retryable = false

	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		aiErr.Err = ErrProviderError
		aiErr.Category = "provider_error"
		aiErr.UserMessage = "The AI provider is temporarily unavailable. Please try again."
		aiErr.Retryable = true

	default:
		aiErr.Err = ErrProviderError
		aiErr.Category = "provider_error"
		aiErr.UserMessage = fmt.Sprintf("AI request failed with status %d.", statusCode)
		aiErr.Retryable = statusCode >= 500
	}

	// Message content can override a generic status classification.
	lower := strings.ToLower(rawBody)
	if aiErr.Category == "provider_error" {
		switch {
		case strings.Contains(lower, "rate limit") || strings.Contains(lower, "ratelimit"):
			aiErr.Err = ErrRateLimited
			aiErr.Category = "rate_limit"
			aiErr.UserMessage = "Rate limit exceeded. Please try again later."
			aiErr.Retryable = true
		case strings.Contains(lower, "insufficient") && strings.Contains(lower, "credit"):
			aiErr.Err = ErrQuotaExhausted
			aiErr.Category = "quota_exhausted"
			aiErr.UserMessage = "AI credits exhausted. Please add more credits."
			aiErr.Retryable = false
		}
	}

	return aiErr
}

// NewTransportError wraps a network-level failure reaching the gateway.
func NewTransportError(err error, model string) *Error {
	return &Error{
		Err:         ErrTransport,
		Model:       model,
		Category:    "transport",
		UserMessage: "Could not reach the AI gateway. Please try again.",
		RawMessage:  err.Error(),
		Retryable:   true,
	}
}

// NewMalformedResponseError marks a reply that lacked the expected payload.
func NewMalformedResponseError(model, detail string) *Error {
	return &Error{
		Err:         ErrMalformedResponse,
		Model:       model,
		Category:    "malformed_response",
		UserMessage: "Invalid AI response format",
		RawMessage:  detail,
		Retryable:   false,
	}
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Retryable
	}
	return false
}

// GetUserMessage returns a user-friendly message for the error.
func GetUserMessage(err error) string {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.UserMessage
	}
	return "An unexpected error occurred. Please try again."
}
