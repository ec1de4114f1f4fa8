package observation

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError reports a filter or sort field outside the configured
// allow-list. It aborts the request before any predicate is built.
type ValidationError struct {
	Field string // Offending field name
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [field=%s]: %v", e.Field, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, cause error) *ValidationError {
	return &ValidationError{Field: field, Cause: cause}
}

// ConfigError reports an unknown reference system or an invalid
// configuration value (bad color code, bad delimiter, and so on).
type ConfigError struct {
	Option string // Configuration option or lookup key
	Value  string // Offending value
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [option=%s, value=%s]: %v", e.Option, e.Value, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option, value string, cause error) *ConfigError {
	return &ConfigError{Option: option, Value: value, Cause: cause}
}

// TransformError reports a coordinate pair outside the valid domain of its
// declared reference system. It is caught per record and never aborts a
// request; the affected record is returned with its derived geographic
// fields absent.
type TransformError struct {
	EPSG  int     // Source reference system
	East  float64 // Raw easting
	North float64 // Raw northing
	Cause error   // Underlying error
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	return fmt.Sprintf("transform error [epsg=%d, east=%g, north=%g]: %v", e.EPSG, e.East, e.North, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// NewTransformError creates a new TransformError.
func NewTransformError(epsg int, east, north float64, cause error) *TransformError {
	return &TransformError{EPSG: epsg, East: east, North: north, Cause: cause}
}

// StoreError reports a store connectivity, query execution, or timeout
// failure. It is fatal to the current request; retries are caller policy.
type StoreError struct {
	Backend   string // Store backend ("sqlite", "memory", ...)
	Operation string // Operation that failed ("search", "count", ...)
	Timeout   bool   // True when the failure was a deadline expiry
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("store error [backend=%s, operation=%s, timeout]: %v", e.Backend, e.Operation, e.Cause)
	}
	return fmt.Sprintf("store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError. The timeout kind is derived from
// the cause so callers can distinguish deadline expiry from other failures.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Timeout:   errors.Is(cause, context.DeadlineExceeded),
		Cause:     cause,
	}
}

// ExportError reports an artifact generation failure. It is fatal to the
// export request only.
type ExportError struct {
	Format      Format // Export format
	RecordCount int    // Number of records being exported
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, record_count=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format Format, recordCount int, cause error) *ExportError {
	return &ExportError{Format: format, RecordCount: recordCount, Cause: cause}
}
