package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
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

// Error codes used throughout the approval workflow. Each maps to a distinct
// HTTP status in RespondWithError so callers can present a precise message.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotActionable     = "NOT_ACTIONABLE"
	CodeChainResolution   = "CHAIN_RESOLUTION_ERROR"
	CodeForbidden         = "FORBIDDEN"
	CodeAlreadyInProgress = "ALREADY_IN_PROGRESS"
	CodeNotPending        = "NOT_PENDING"
	CodePersistence       = "PERSISTENCE_ERROR"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
)

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

// NewUnauthenticatedError indicates the caller has no valid session and
// must re-authenticate.
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
	}
}

// NewUnauthorizedError indicates the actor is not the approver for the
// request's current level.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewNotActionableError indicates the request is in a terminal status and
// accepts no further approval actions.
func NewNotActionableError(message string) *AppError {
	return &AppError{
		Code:    CodeNotActionable,
		Message: message,
	}
}

// NewChainResolutionError indicates the approver chain could not be resolved,
// so approval actions must be blocked until the roster is repaired.
func NewChainResolutionError(err error) *AppError {
	return &AppError{
		Code:    CodeChainResolution,
		Message: "Approval chain could not be resolved",
		Err:     err,
	}
}

// NewForbiddenError indicates the actor is not the creator of the record
// they attempted to edit or delete.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewAlreadyInProgressError indicates the request has already received at
// least one approval and can no longer be edited or deleted.
func NewAlreadyInProgressError() *AppError {
	return &AppError{
		Code:    CodeAlreadyInProgress,
		Message: "This request has already been partially approved and cannot be modified",
	}
}

// NewNotPendingError indicates the request reached a terminal status.
func NewNotPendingError() *AppError {
	return &AppError{
		Code:    CodeNotPending,
		Message: "Only pending requests can be modified",
	}
}

// NewPersistenceError wraps a datastore I/O failure. It is surfaced verbatim
// to the actor; no retries are performed internally.
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Code:    CodePersistence,
		Message: "Datastore operation failed",
		Err:     err,
	}
}

// NewConflictError indicates an optimistic-concurrency violation: another
// approver acted on the same level first. The actor should refresh and
// re-view the current state before retrying.
func NewConflictError() *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: "The request was modified by another approver; refresh and review the current state",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps an AppError code to its HTTP status.
func StatusForError(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case CodeUnauthorized, CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotActionable, CodeAlreadyInProgress, CodeNotPending:
		return fiber.StatusUnprocessableEntity
	case CodeConflict:
		return fiber.StatusConflict
	case CodeChainResolution, CodePersistence, CodeInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
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

// RespondAppError writes err using the status derived from its code.
func RespondAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusForError(err), err)
}
