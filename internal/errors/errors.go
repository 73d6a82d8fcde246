// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumn     = errors.New("required column missing")
	ErrMalformedRow      = errors.New("malformed input row")
	ErrEmptyDataset      = errors.New("dataset is empty")
	ErrInsufficientData  = errors.New("insufficient data for calculation")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrDataNotFound      = errors.New("data not found")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDatabaseError     = errors.New("database error")
)

// DataError represents an error while loading or validating input data.
type DataError struct {
	Path    string
	Row     int // 0 when the error is not row-specific
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Row > 0 {
		if e.Err != nil {
			return fmt.Sprintf("data error %s (row %d): %s: %v", e.Path, e.Row, e.Message, e.Err)
		}
		return fmt.Sprintf("data error %s (row %d): %s", e.Path, e.Row, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("data error %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("data error %s: %s", e.Path, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(path string, row int, message string, err error) *DataError {
	return &DataError{
		Path:    path,
		Row:     row,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ChartError represents an error while rendering or storing a chart.
type ChartError struct {
	Stage string
	Path  string
	Err   error
}

func (e *ChartError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("chart error [%s] %s: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("chart error [%s]: %v", e.Stage, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

// NewChartError creates a new ChartError.
func NewChartError(stage, path string, err error) *ChartError {
	return &ChartError{
		Stage: stage,
		Path:  path,
		Err:   err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
