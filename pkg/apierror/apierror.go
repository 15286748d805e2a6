// Package apierror defines the classified errors handlers turn into HTTP responses.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
)

// APIError is a failure the client is allowed to see.
type APIError struct {
	Code          string   `json:"-"`
	Message       string   `json:"message"`
	Status        int      `json:"-"`
	MissingFields []string `json:"missingFields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds an APIError with an explicit code and status.
func New(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

func Validation(message string) *APIError {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// MissingFields is a validation error listing the absent fields.
func MissingFields(message string, fields []string) *APIError {
	err := Validation(message)
	err.MissingFields = fields
	return err
}

func Unauthorized(message string) *APIError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(message string) *APIError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

// Conflict reports a duplicate resource. The API answers these with 400.
func Conflict(message string) *APIError {
	return New(CodeConflict, message, http.StatusBadRequest)
}

// As extracts an *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an APIError with the given code.
func HasCode(err error, code string) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}
