// Package errors provides centralized error definitions for the application.
// Errors are organized by domain to avoid duplication and provide consistent naming.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - Unexported errors (err*): Use for internal package errors
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import "errors"

// Dataset loading errors.
var (
	// ErrSchemaMismatch indicates a loaded table has an unexpected column count or shape.
	ErrSchemaMismatch = errors.New("unexpected dataset schema")

	// ErrDataUnavailable indicates a dataset source could not be reached or read.
	ErrDataUnavailable = errors.New("dataset unavailable")

	// ErrSourceNotConfigured indicates no source URI or DSN was provided for a dataset.
	ErrSourceNotConfigured = errors.New("dataset source not configured")

	// ErrUnsupportedSource indicates the source URI scheme is not recognized.
	ErrUnsupportedSource = errors.New("unsupported dataset source")
)

// Lookup errors.
var (
	// ErrUnknownDataset indicates a dataset name that is not registered in the catalog.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrNotFound is a generic not found error.
	ErrNotFound = errors.New("not found")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// Rate limiting errors.
var (
	// ErrRateLimited indicates rate limiting was triggered.
	ErrRateLimited = errors.New("rate limited")
)
