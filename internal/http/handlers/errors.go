package handlers

import (
	"errors"
	"net/http"

	"github.com/brandforge/brandforge-api/internal/ai"
	"github.com/brandforge/brandforge-api/internal/service"
)

// PipelineError is the standardized error body for analysis and generation
// endpoints. It implements huma.StatusError so handlers can return it
// directly.
type PipelineError struct {
	Status        int    `json:"-"`
	Title         string `json:"title,omitempty"`
	Detail        string `json:"detail,omitempty"`
	ErrorCategory string `json:"error_category,omitempty"`
}

func (e *PipelineError) Error() string {
	return e.Detail
}

func (e *PipelineError) GetStatus() int {
	return e.Status
}

func newPipelineError(status int, detail, category string) *PipelineError {
	return &PipelineError{
		Status:        status,
		Title:         http.StatusText(status),
		Detail:        detail,
		ErrorCategory: category,
	}
}

// mapServiceError converts service and gateway errors into HTTP errors.
// Validation failures are 422, ownership misses are 404, and gateway
// failures carry the user-facing message from the AI error classifier.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidURL),
		errors.Is(err, service.ErrInvalidPlatform),
		errors.Is(err, service.ErrInvalidMethod),
		errors.Is(err, service.ErrInvalidAspectRatio),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrEmptyPrompt):
		return newPipelineError(http.StatusUnprocessableEntity, err.Error(), "validation_error")

	case errors.Is(err, service.ErrBrandNameMissing):
		return newPipelineError(http.StatusUnprocessableEntity, err.Error(), "extraction_error")

	case errors.Is(err, service.ErrBundleNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return newPipelineError(http.StatusNotFound, err.Error(), "not_found")

	case errors.Is(err, service.ErrAnalysisInProgress):
		return newPipelineError(http.StatusConflict, err.Error(), "analysis_in_progress")
	}

	var aiErr *ai.Error
	if errors.As(err, &aiErr) {
		return newPipelineError(aiStatusCode(aiErr), aiErr.UserMessage, aiErr.Category)
	}

	return newPipelineError(http.StatusInternalServerError, "Operation failed", "internal_error")
}

// aiStatusCode maps gateway error classes to HTTP status codes.
func aiStatusCode(aiErr *ai.Error) int {
	switch {
	case errors.Is(aiErr.Err, ai.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(aiErr.Err, ai.ErrQuotaExhausted):
		return http.StatusPaymentRequired
	case errors.Is(aiErr.Err, ai.ErrInvalidAPIKey):
		// A bad gateway key is a server misconfiguration, not a client fault.
		return http.StatusBadGateway
	case errors.Is(aiErr.Err, ai.ErrProviderError),
		errors.Is(aiErr.Err, ai.ErrTransport),
		errors.Is(aiErr.Err, ai.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
