// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AppError represents a custom application error with a machine-readable code.
type AppError struct {
	Code    string
	Status  int
	Message string
	Fields  map[string]string
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

// NewValidationError reports malformed or missing input (400).
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Status:  fiber.StatusBadRequest,
		Message: message,
	}
}

// NewFieldValidationError reports malformed input with per-field detail (400).
func NewFieldValidationError(message string, fields map[string]string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Status:  fiber.StatusBadRequest,
		Message: message,
		Fields:  fields,
	}
}

// NewUnauthorizedError reports a missing or invalid credential (401).
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Status:  fiber.StatusUnauthorized,
		Message: message,
	}
}

// NewTokenExpiredError reports an expired credential, distinct from a malformed one (401).
func NewTokenExpiredError() *AppError {
	return &AppError{
		Code:    "TOKEN_EXPIRED",
		Status:  fiber.StatusUnauthorized,
		Message: "Token expired. Please log in again.",
	}
}

// NewForbiddenError reports a valid principal with insufficient role or ownership (403).
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Status:  fiber.StatusForbidden,
		Message: message,
	}
}

// NewNotFoundError reports a resource id with no matching record (404).
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewConflictError reports a unique-constraint violation (409).
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Status:  fiber.StatusConflict,
		Message: message,
	}
}

// NewExternalServiceError reports an upstream integration failure (502).
func NewExternalServiceError(service string, err error) *AppError {
	return &AppError{
		Code:    "EXTERNAL_SERVICE_ERROR",
		Status:  fiber.StatusBadGateway,
		Message: fmt.Sprintf("%s is currently unavailable", service),
		Err:     err,
	}
}

// NewInternalError wraps an unexpected failure (500).
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes a standardized error envelope. AppError carries its
// own status; the passed status is the fallback for plain errors.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	body := fiber.Map{
		"success": false,
		"message": "An error occurred",
	}

	if appErr, ok := err.(*AppError); ok {
		status = appErr.Status
		body["message"] = appErr.Message
		body["code"] = appErr.Code
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		if appErr.Err != nil && os.Getenv("APP_ENV") != "production" {
			body["errors"] = appErr.Err.Error()
		}
	} else if err != nil {
		body["message"] = err.Error()
	}

	return c.Status(status).JSON(body)
}
