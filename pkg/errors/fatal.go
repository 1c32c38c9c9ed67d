package errors

import "fmt"

// aborts is embedded by every error that stops the run.
type aborts struct{}

// Is matches ErrFatal.
func (aborts) Is(target error) bool {
	return target == ErrFatal
}

// ConfigError is an unusable configuration. Building with it would publish
// a wrong catalog, so it always aborts.
type ConfigError struct {
	aborts
	Component string
	Message   string
	Err       error
}

// NewConfigError creates a ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "bad configuration: " + e.Message
	}
	return fmt.Sprintf("bad %s configuration: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TemplateError is a composed document that still holds a placeholder.
type TemplateError struct {
	aborts
	Document    string
	Placeholder string
}

// NewTemplateError creates a TemplateError.
func NewTemplateError(document, placeholder string) *TemplateError {
	return &TemplateError{Document: document, Placeholder: placeholder}
}

func (e *TemplateError) Error() string {
	if e.Placeholder == "" {
		return fmt.Sprintf("bad template for %s: unresolved placeholder", e.Document)
	}
	return fmt.Sprintf("bad template for %s: unresolved placeholder %s", e.Document, e.Placeholder)
}

// CorruptMetadataError is canonical metadata that already carries an
// output-only field, which means the source tree holds published output.
type CorruptMetadataError struct {
	aborts
	Machine string
	Field   string
}

// NewCorruptMetadataError creates a CorruptMetadataError.
func NewCorruptMetadataError(machine, field string) *CorruptMetadataError {
	return &CorruptMetadataError{Machine: machine, Field: field}
}

func (e *CorruptMetadataError) Error() string {
	return fmt.Sprintf("canonical metadata for %s already contains output field %q", e.Machine, e.Field)
}

// MissingMetadataError is a non-MAME system without its emulator metadata.
type MissingMetadataError struct {
	System string
	Path   string
}

// NewMissingMetadataError creates a MissingMetadataError.
func NewMissingMetadataError(system, path string) *MissingMetadataError {
	return &MissingMetadataError{System: system, Path: path}
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("missing %s emulator metadata: %s", e.System, e.Path)
}

// Is matches both ErrFatal and ErrNotFound.
func (e *MissingMetadataError) Is(target error) bool {
	return target == ErrFatal || target == ErrNotFound
}

// FatalError promotes an ordinary failure to a run-aborting one, such as
// failing to clear previous output.
type FatalError struct {
	aborts
	Operation string
	Err       error
}

// NewFatalError creates a FatalError.
func NewFatalError(operation string, err error) *FatalError {
	return &FatalError{Operation: operation, Err: err}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
