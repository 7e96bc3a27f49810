package domain

import "fmt"

// ErrorCode is the machine-readable error taxonomy surfaced in API envelopes.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInternal     ErrorCode = "INTERNAL"
)

// Error is the domain error carried from services to the transport layer.
// Details holds caller-correctable context (field errors, current status).
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(message string, fieldErrors map[string][]string) *Error {
	details := map[string]any{}
	if fieldErrors != nil {
		details["fieldErrors"] = fieldErrors
	}
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// FieldValidationError reports a single offending field with one reason.
func FieldValidationError(field, reason string) *Error {
	return NewValidationError("Invalid request", map[string][]string{field: {reason}})
}

func NewUnauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func NewConflict(message string, details map[string]any) *Error {
	return &Error{Code: CodeConflict, Message: message, Details: details}
}
