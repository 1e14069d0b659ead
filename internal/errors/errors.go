// Package errors provides centralized error handling with optional telemetry integration
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryNetwork       ErrorCategory = "network"
	CategoryHTTP          ErrorCategory = "http-request"
	CategoryFileIO        ErrorCategory = "file-io"
	CategoryFileParsing   ErrorCategory = "file-parsing"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryGeolocation   ErrorCategory = "geolocation"
	CategoryImage         ErrorCategory = "image-processing"
	CategoryState         ErrorCategory = "state"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryCancellation  ErrorCategory = "cancellation"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when no component was given.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	Component string         // Component where error occurred
	Category  ErrorCategory  // Error category for better grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
	reported  bool
	mu        sync.RWMutex
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches another EnhancedError by category, anything else through the wrapped error
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	if ee.Context == nil {
		return nil
	}
	contextCopy := make(map[string]any, len(ee.Context))
	maps.Copy(contextCopy, ee.Context)
	return contextCopy
}

// MarkReported marks this error as reported to telemetry
func (ee *EnhancedError) MarkReported() {
	ee.mu.Lock()
	defer ee.mu.Unlock()
	ee.reported = true
}

// IsReported returns whether this error has been reported
func (ee *EnhancedError) IsReported() bool {
	ee.mu.RLock()
	defer ee.mu.RUnlock()
	return ee.reported
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error with enhanced context
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new formatted error with enhanced context
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Build creates the EnhancedError and hands it to the telemetry reporter, if any
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
	if ee.Err == nil {
		ee.Err = stderrors.New("unknown error")
	}
	if ee.Component == "" {
		ee.Component = ComponentUnknown
	}
	if ee.Category == "" {
		ee.Category = CategoryGeneric
	}

	reportToTelemetry(ee)
	return ee
}

// ValidationError creates a validation error
func ValidationError(component, message string) *EnhancedError {
	return New(NewStd(message)).
		Component(component).
		Category(CategoryValidation).
		Build()
}

// Standard library passthrough functions
// These allow this package to be a drop-in replacement for the standard errors package

// NewStd creates a new standard error (passthrough to standard library)
func NewStd(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsCategory checks if an error is an EnhancedError with the specified category.
func IsCategory(err error, category ErrorCategory) bool {
	var enhancedErr *EnhancedError
	return As(err, &enhancedErr) && enhancedErr.Category == category
}
