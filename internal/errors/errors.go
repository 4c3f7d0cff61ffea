// Package errors provides structured error types for dofp operations.
package errors

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindConfig represents invalid bitrate tables, thresholds or policy settings.
	KindConfig ErrorKind = iota
	// KindPolicy represents an engine invocation on state it must not decide.
	KindPolicy
	// KindParse represents malformed textual input (sequences, bitrate lists, scenarios).
	KindParse
	// KindIO represents I/O errors.
	KindIO
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "Configuration error"
	case KindPolicy:
		return "Policy error"
	case KindParse:
		return "Parse error"
	case KindIO:
		return "I/O error"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CoreError is the main error type for dofp operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewConfigError creates a configuration error. The sentinel, when non-nil,
// stays reachable through errors.Is.
func NewConfigError(sentinel error, format string, args ...any) *CoreError {
	return &CoreError{Kind: KindConfig, Message: fmt.Sprintf(format, args...), Underlying: sentinel}
}

// NewPolicyError creates a policy error.
func NewPolicyError(sentinel error, format string, args ...any) *CoreError {
	return &CoreError{Kind: KindPolicy, Message: fmt.Sprintf(format, args...), Underlying: sentinel}
}

// NewParseError creates a parse error.
func NewParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindParse, Message: message, Underlying: underlying}
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsConfig checks if the error is a configuration error.
func IsConfig(err error) bool {
	return IsKind(err, KindConfig)
}

// IsPolicy checks if the error is a policy error.
func IsPolicy(err error) bool {
	return IsKind(err, KindPolicy)
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}
