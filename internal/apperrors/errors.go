package apperrors

import (
	"fmt"
	"strings"
)

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewRunNotFoundError creates a specific error for when a cleaning run is not in the history.
func NewRunNotFoundError(runID string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "run",
		ID:       runID,
	}
}

// DataLoadError is returned when a dataset cannot be read: the file is missing
// or unreadable, the CSV structure is invalid, or the text is not valid in the
// configured encoding.
type DataLoadError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

// Error implements the error interface.
func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to load dataset %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *DataLoadError) Is(target error) bool {
	_, ok := target.(*DataLoadError)
	return ok
}

// NewDataLoadError creates a new DataLoadError.
func NewDataLoadError(path string, line int, err error) *DataLoadError {
	return &DataLoadError{Path: path, Line: line, Err: err}
}

// DataWriteError is returned when the cleaned dataset cannot be written.
type DataWriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DataWriteError) Error() string {
	return fmt.Sprintf("failed to write dataset %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *DataWriteError) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *DataWriteError) Is(target error) bool {
	_, ok := target.(*DataWriteError)
	return ok
}

// NewDataWriteError creates a new DataWriteError.
func NewDataWriteError(path string, err error) *DataWriteError {
	return &DataWriteError{Path: path, Err: err}
}

// SchemaError is returned when a column required by a cleaning or report step is absent.
type SchemaError struct {
	Column    string
	Available []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("required column %q not found in dataset", e.Column)
	}
	return fmt.Sprintf("required column %q not found in dataset (columns: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Is allows for error checking with errors.Is().
func (e *SchemaError) Is(target error) bool {
	_, ok := target.(*SchemaError)
	return ok
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(column string, available []string) *SchemaError {
	return &SchemaError{
		Column:    column,
		Available: append([]string(nil), available...),
	}
}
