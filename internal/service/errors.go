package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError aggregates field level failures for a single operation.
// Every field can carry multiple messages; callers surface the whole map.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty, ready to fill validation error.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add appends a message for a field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// NotFoundError reports a well-formed id with no matching row. It is distinct
// from malformed-id errors, which are ServiceErrors.
type NotFoundError struct {
	Resource string
	ID       uint
}

// NewPostNotFound builds a NotFoundError for a post id.
func NewPostNotFound(id uint) *NotFoundError {
	return &NotFoundError{Resource: "post", ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ServiceError covers malformed input and unexpected storage failures. The
// message is safe to surface; the cause is not, and stays behind Unwrap.
type ServiceError struct {
	Message string
	Cause   error
}

// NewServiceError builds a ServiceError without an underlying cause.
func NewServiceError(message string) *ServiceError {
	return &ServiceError{Message: message}
}

// WrapServiceError attaches a storage-layer cause to an opaque message.
func WrapServiceError(message string, cause error) *ServiceError {
	return &ServiceError{Message: message, Cause: cause}
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
