// Package errors provides structured error types for the colbench harness.
// All errors include a category, code, and message for consistent handling
// across the generation, engine, and reporting components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by harness component.
type ErrorCategory string

const (
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryGeneration ErrorCategory = "GENERATION"
	ErrCategoryEngine     ErrorCategory = "ENGINE"
	ErrCategoryResults    ErrorCategory = "RESULTS"
	ErrCategoryStorage    ErrorCategory = "STORAGE"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Validation codes
	CodeInvalidParameter = "INVALID_PARAMETER"

	// Generation codes
	CodeAllocationFailed = "ALLOCATION_FAILED"

	// Engine codes
	CodeEngineFailed = "ENGINE_FAILED"

	// Results codes
	CodeStoreFailed    = "STORE_FAILED"
	CodeArtifactFailed = "ARTIFACT_FAILED"

	// Storage codes
	CodeUploadFailed = "UPLOAD_FAILED"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// BenchError is the structured error type used throughout the harness.
// Benchmark runs measure steady-state behavior, so nothing carried by
// this type is ever retried; a failed parameter combination is simply
// reported as failed.
type BenchError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Details  map[string]interface{}
	Cause    error
}

// Error returns a formatted error string.
func (e *BenchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *BenchError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *BenchError) Is(target error) bool {
	var t *BenchError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new BenchError.
func New(category ErrorCategory, code, message string) *BenchError {
	return &BenchError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new BenchError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *BenchError {
	return &BenchError{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *BenchError) WithDetails(details map[string]interface{}) *BenchError {
	cp := *e
	cp.Details = details
	return &cp
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a BenchError.
func GetCategory(err error) ErrorCategory {
	var be *BenchError
	if errors.As(err, &be) {
		return be.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a BenchError.
func GetCode(err error) string {
	var be *BenchError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Convenience constructors for common errors.

func NewInvalidParameter(message string) *BenchError {
	return New(ErrCategoryValidation, CodeInvalidParameter, message)
}

func NewAllocationError(message string) *BenchError {
	return New(ErrCategoryGeneration, CodeAllocationFailed, message)
}

func NewEngineError(message string, cause error) *BenchError {
	return Wrap(ErrCategoryEngine, CodeEngineFailed, message, cause)
}

func NewResultsError(code, message string, cause error) *BenchError {
	return Wrap(ErrCategoryResults, code, message, cause)
}

func NewStorageError(message string, cause error) *BenchError {
	return Wrap(ErrCategoryStorage, CodeUploadFailed, message, cause)
}

func NewInternalError(message string, cause error) *BenchError {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
