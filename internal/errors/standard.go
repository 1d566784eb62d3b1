// Package errors provides standardized error messaging for the input system
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryIO     ErrorCategory = "IO"
	CategoryBuffer ErrorCategory = "BUFFER"
	CategoryConfig ErrorCategory = "CONFIG"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	Cause    error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v (caller: %s)", e.Category, e.Code, e.Message, e.Cause, e.Caller)
	}
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error { return e.Cause }

// Is matches another StandardError with the same category and code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Category == e.Category && t.Code == e.Code
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return newStandardError(2, category, code, message, context)
}

func newStandardError(skip int, category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(skip)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// Sentinels usable as errors.Is targets; only Category and Code are compared.
var (
	ErrReadFailed    = &StandardError{Category: CategoryIO, Code: "READ_FAILED"}
	ErrFillNoRoom    = &StandardError{Category: CategoryBuffer, Code: "FILL_NO_ROOM"}
	ErrFlushNoRoom   = &StandardError{Category: CategoryBuffer, Code: "FLUSH_NO_ROOM"}
	ErrInvalidConfig = &StandardError{Category: CategoryConfig, Code: "INVALID_CONFIG"}
	ErrIncompatible  = &StandardError{Category: CategoryConfig, Code: "INCOMPATIBLE_VERSION"}
)

// Common error constructors
func ReadFailed(stream string, cause error) *StandardError {
	e := newStandardError(2, CategoryIO, "READ_FAILED",
		fmt.Sprintf("can't read input stream %q", stream),
		map[string]interface{}{"stream": stream})
	e.Cause = cause
	return e
}

func FillNoRoom(start, capacity int) *StandardError {
	return newStandardError(2, CategoryBuffer, "FILL_NO_ROOM",
		fmt.Sprintf("buffer full, can't read (fill requested at %d of %d)", start, capacity),
		map[string]interface{}{"start": start, "capacity": capacity})
}

func FlushNoRoom(leftEdge, maxLexeme int) *StandardError {
	return newStandardError(2, CategoryBuffer, "FLUSH_NO_ROOM",
		fmt.Sprintf("forced flush left only %d bytes of room, need %d", leftEdge, maxLexeme),
		map[string]interface{}{"left_edge": leftEdge, "max_lexeme": maxLexeme})
}

func InvalidConfig(field string, value interface{}, reason string) *StandardError {
	return newStandardError(2, CategoryConfig, "INVALID_CONFIG",
		fmt.Sprintf("invalid %s %v: %s", field, value, reason),
		map[string]interface{}{"field": field, "value": value})
}

func Incompatible(version, constraint string, cause error) *StandardError {
	e := newStandardError(2, CategoryConfig, "INCOMPATIBLE_VERSION",
		fmt.Sprintf("version %s does not satisfy %q", version, constraint),
		map[string]interface{}{"version": version, "constraint": constraint})
	e.Cause = cause
	return e
}
