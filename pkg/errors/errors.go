// Package errors defines the error types of the arcade build.
//
// A build distinguishes three severities. Errors matching ErrFatal abort the
// whole run. Everything else is handled where it occurs: a game is skipped,
// or an asset is replaced by its default, and the run carries on.
package errors

import (
	"errors"
	"fmt"
)

// Aliases of the standard library helpers so callers need one import.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinels matched with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrFatal        = errors.New("fatal")
)

// IsNotFound reports whether err means a missing file or record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError reports whether err is a rejected input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}

// NotFoundError is a missing file, record or asset.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError is an input rejected before any work starts.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ParseError is a source file that could not be decoded.
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

// NewParseError creates a ParseError.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// WrapParse wraps a decoder error. It returns nil for a nil err.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("cannot parse %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("cannot parse %s %s: %s", e.Format, e.File, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError is a failed filesystem operation.
type IOError struct {
	Operation string
	Path      string
	Err       error
}

// NewIOError creates an IOError.
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapIO wraps a filesystem error. It returns nil for a nil err.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ResourceError attributes a failure to one game, document or asset.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Err       error
}

// WrapResource wraps err with the resource it happened to. It returns nil
// for a nil err.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ProcessError is a failed external command.
type ProcessError struct {
	Operation string
	Command   string
	Output    string
	Err       error
}

// NewProcessError creates a ProcessError.
func NewProcessError(operation, command, output string, err error) *ProcessError {
	return &ProcessError{Operation: operation, Command: command, Output: output, Err: err}
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Operation, e.Command, e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }
