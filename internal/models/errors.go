package models

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StackTrace string `json:"stackTrace,omitempty"`
	Error      string `json:"error,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code        string
	Message     string
	Status      int
	Err         error
	Operational bool
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

// InvalidCredentialsMessage is shared by the unknown-user and wrong-password
// login failures so the two cannot be told apart.
const InvalidCredentialsMessage = "Invalid username or password!"

// Predefined error constructors
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:        "BAD_REQUEST",
		Message:     message,
		Status:      http.StatusBadRequest,
		Operational: true,
	}
}

// NewNotFoundError builds "<resource> with ID <id> not found", or
// "<resource> not found" when id is nil.
func NewNotFoundError(resource string, id any) *AppError {
	msg := resource + " not found"
	if id != nil {
		msg = fmt.Sprintf("%s with ID %v not found", resource, id)
	}
	return &AppError{
		Code:        "NOT_FOUND",
		Message:     msg,
		Status:      http.StatusNotFound,
		Operational: true,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:        "CONFLICT",
		Message:     message,
		Status:      http.StatusConflict,
		Operational: true,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:        "UNAUTHORIZED",
		Message:     message,
		Status:      http.StatusUnauthorized,
		Operational: true,
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:        "INVALID_CREDENTIALS",
		Message:     InvalidCredentialsMessage,
		Status:      http.StatusForbidden,
		Operational: true,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:        "FORBIDDEN",
		Message:     message,
		Status:      http.StatusForbidden,
		Operational: true,
	}
}

// NewValidationError joins every field message into a single
// "Invalid input data: a. b" message.
func NewValidationError(messages ...string) *AppError {
	return &AppError{
		Code:        "VALIDATION_ERROR",
		Message:     "Invalid input data: " + strings.Join(messages, ". "),
		Status:      http.StatusBadRequest,
		Operational: true,
	}
}

// NewServiceError is an operational 500 whose message is safe to show.
func NewServiceError(message string, err error) *AppError {
	return &AppError{
		Code:        "SERVICE_ERROR",
		Message:     message,
		Status:      http.StatusInternalServerError,
		Err:         err,
		Operational: true,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewEmptyError is a 404 for a view that exists but has nothing to show,
// such as a post without comments.
func NewEmptyError(message string) *AppError {
	return &AppError{
		Code:        "NOT_FOUND",
		Message:     message,
		Status:      http.StatusNotFound,
		Operational: true,
	}
}
