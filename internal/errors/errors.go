package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Tool call errors (CALL-001 to CALL-099)
	ErrCodeCatalogInvalid ErrorCode = "CALL-001"
	ErrCodeCatalogLoad    ErrorCode = "CALL-002"
	ErrCodeMarkersInvalid ErrorCode = "CALL-003"

	// Normalizer errors (NORM-001 to NORM-099)
	ErrCodeUnknownKind        ErrorCode = "NORM-001"
	ErrCodeInapplicableOption ErrorCode = "NORM-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid   ErrorCode = "CONFIG-001"
	ErrCodeConfigUnmarshal ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeStdinRead       ErrorCode = "IO-003"
	ErrCodeFileWriteFailed ErrorCode = "IO-004"

	// Output errors (OUTPUT-001 to OUTPUT-099)
	ErrCodeUnknownFormat ErrorCode = "OUTPUT-001"
	ErrCodeEncodeFailed  ErrorCode = "OUTPUT-002"

	// Check errors (CHECK-001 to CHECK-099)
	ErrCodeResultFailed ErrorCode = "CHECK-001"
	ErrCodeGateFailed   ErrorCode = "CHECK-002"
)

// ToolwireError represents an error with a code and suggestions
type ToolwireError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *ToolwireError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ToolwireError) Unwrap() error {
	return e.Cause
}

// Category returns the code prefix, such as "IO" for "IO-002".
func (e *ToolwireError) Category() string {
	category, _, _ := strings.Cut(string(e.Code), "-")
	return category
}

// New creates a new ToolwireError
func New(code ErrorCode, message string) *ToolwireError {
	return &ToolwireError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ToolwireError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ToolwireError {
	return &ToolwireError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ToolwireError) WithSuggestion(suggestion string) *ToolwireError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ToolwireError) WithSuggestions(suggestions ...string) *ToolwireError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// As finds the first ToolwireError in err's chain.
func As(err error) (*ToolwireError, bool) {
	var te *ToolwireError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// Common error constructors for frequently used errors

// NewUnknownKindError creates an error for a normalizer kind that is not registered
func NewUnknownKindError(kind string, known []string) *ToolwireError {
	return New(ErrCodeUnknownKind, fmt.Sprintf("unknown tool kind: %s", kind)).
		WithSuggestion("Run 'toolwire normalize --help' to list the kinds").
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(known, ", ")))
}

// NewUnknownFormatError creates an error for an unsupported output format
func NewUnknownFormatError(format string, known []string) *ToolwireError {
	return New(ErrCodeUnknownFormat, fmt.Sprintf("unknown output format: %s", format)).
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(known, ", ")))
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *ToolwireError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Use '-' to read from standard input")
}

// NewFileReadError creates a read failure error
func NewFileReadError(path string, cause error) *ToolwireError {
	return Wrap(ErrCodeFileReadFailed, fmt.Sprintf("failed to read file: %s", path), cause).
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewConfigUnmarshalError creates a config parse error
func NewConfigUnmarshalError(path string, cause error) *ToolwireError {
	return Wrap(ErrCodeConfigUnmarshal, fmt.Sprintf("failed to parse config file: %s", path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion("Ensure the file is valid YAML")
}

// NewConfigInvalidError creates a config validation error
func NewConfigInvalidError(details string) *ToolwireError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Review .toolwire.yaml or the file passed with --config")
}

// NewCheckFailedError reports a normalized result with success=false when
// the caller asked for a failing exit status
func NewCheckFailedError(code ErrorCode, summary string) *ToolwireError {
	return New(code, fmt.Sprintf("check failed: %s", summary)).
		WithSuggestion("Inspect the printed result for the failing entries")
}

// NewInapplicableOptionError reports a flag given to a kind that ignores it
func NewInapplicableOptionError(flag, kind, appliesTo string) *ToolwireError {
	return New(ErrCodeInapplicableOption, fmt.Sprintf("option %s does not apply to %s", flag, kind)).
		WithSuggestion(fmt.Sprintf("%s is only read by %s", flag, appliesTo))
}

// NewCatalogInvalidError creates a tool catalog validation error
func NewCatalogInvalidError(path string, cause error) *ToolwireError {
	return Wrap(ErrCodeCatalogInvalid, fmt.Sprintf("invalid tool catalog: %s", path), cause).
		WithSuggestion("Every tool must be a valid schema under components.schemas")
}

// NewCatalogLoadError creates a tool catalog load error
func NewCatalogLoadError(path string, cause error) *ToolwireError {
	return Wrap(ErrCodeCatalogLoad, fmt.Sprintf("failed to load tool catalog: %s", path), cause).
		WithSuggestion("The catalog must be an OpenAPI 3 document with one schema per tool").
		WithSuggestion("Run 'toolwire tools' to print the built-in catalog")
}
