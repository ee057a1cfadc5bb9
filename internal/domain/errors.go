package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "One or more form fields are invalid",
		StatusCode: 422,
	}

	ErrSubmissionFailed = &AppError{
		Code:       "SUBMISSION_FAILED",
		Message:    "We could not process your request, please try again",
		StatusCode: 502,
	}

	ErrSubmissionInFlight = &AppError{
		Code:       "SUBMISSION_IN_FLIGHT",
		Message:    "A submission is already being processed",
		StatusCode: 409,
	}

	ErrConfigUnavailable = &AppError{
		Code:       "CONFIG_UNAVAILABLE",
		Message:    "Widget configuration is not available yet",
		StatusCode: 503,
	}

	ErrWidgetDisabled = &AppError{
		Code:       "WIDGET_DISABLED",
		Message:    "The popup widget is disabled",
		StatusCode: 403,
	}

	ErrRegionsUnbound = &AppError{
		Code:       "REGIONS_UNBOUND",
		Message:    "Widget regions are not bound",
		StatusCode: 503,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}
)
