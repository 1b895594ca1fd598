// Package errors provides the typed error taxonomy for the engine.
package errors

import (
	"errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeClassification indicates an unresolvable tariff code.
	// This is an explicit "unclassified" state, never a silent 0% duty.
	TypeClassification Type = "CLASSIFICATION_NOT_FOUND"

	// TypeZoneMapping indicates a destination country with no shipping zone
	TypeZoneMapping Type = "ZONE_MAPPING_MISSING"

	// TypePersistence indicates a failed row write
	TypePersistence Type = "PERSISTENCE_FAILURE"

	// TypeConfig indicates a foundational dataset or configuration failure.
	// Unlike the per-country types above, this aborts a batch run.
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a missing resource (policy, row)
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error is a domain error carrying its taxonomy type and context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a taxonomy type
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsType reports whether err (or anything it wraps) carries the given type
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the taxonomy type of err, or TypeInternal for foreign errors
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// Input creates an input validation error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// ClassificationNotFound reports a tariff code that matched nothing in the rate table
func ClassificationNotFound(tariffCode string) *Error {
	return Newf(TypeClassification, "tariff code unresolvable: %s", tariffCode).
		WithContext("tariff_code", tariffCode)
}

// ZoneMappingMissing reports a country with no zone assignment
func ZoneMappingMissing(countryCode string) *Error {
	return Newf(TypeZoneMapping, "no shipping zone for country: %s", countryCode).
		WithContext("country_code", countryCode)
}

// Persistence reports a failed row write
func Persistence(message string, cause error) *Error {
	return Wrap(TypePersistence, message, cause)
}

// Config reports a foundational dataset or configuration failure
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// NotFound reports a missing resource
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
