package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across services and adapters. Handlers and the scheduler
// branch on these instead of on error types.
const (
	CodeNotFound                 = "NOT_FOUND"
	CodeValidation               = "VALIDATION_ERROR"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeInternal                 = "INTERNAL_ERROR"
	CodeMisconfiguredCredentials = "MISCONFIGURED_CREDENTIALS"
	CodeUpstreamUnavailable      = "UPSTREAM_UNAVAILABLE"
	CodeUnknownToken             = "UNKNOWN_TOKEN"
	CodeNotLinked                = "NOT_LINKED"
	CodeGenerationFailed         = "GENERATION_FAILED"
	CodePublishRejected          = "PUBLISH_REJECTED"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// ErrorCode returns the AppError code carried by err, or CodeInternal when
// err is not an AppError.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewMisconfiguredCredentialsError signals missing process-wide secrets. It is
// fatal to the operation but never to the process.
func NewMisconfiguredCredentialsError(what string) *AppError {
	return &AppError{
		Code:    CodeMisconfiguredCredentials,
		Message: what + " credentials are not configured",
	}
}

// NewUpstreamUnavailableError wraps a network failure or non-success response
// from the authorization server.
func NewUpstreamUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeUpstreamUnavailable,
		Message: "Upstream service unavailable",
		Err:     err,
	}
}

// NewUnknownTokenError covers both a temp-credential lookup miss and an
// expired credential; callers cannot distinguish the two on purpose.
func NewUnknownTokenError() *AppError {
	return &AppError{
		Code:    CodeUnknownToken,
		Message: "Unknown or expired OAuth token",
	}
}

func NewNotLinkedError() *AppError {
	return &AppError{
		Code:    CodeNotLinked,
		Message: "No Twitter account connected",
	}
}

func NewGenerationFailedError(err error) *AppError {
	return &AppError{
		Code:    CodeGenerationFailed,
		Message: "Content generation failed",
		Err:     err,
	}
}

// NewPublishRejectedError carries the upstream response body verbatim. This is
// an expected, recordable outcome (revoked tokens, duplicates, rate limits),
// not a process fault.
func NewPublishRejectedError(details string) *AppError {
	return &AppError{
		Code:    CodePublishRejected,
		Message: "Twitter API error: " + details,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
