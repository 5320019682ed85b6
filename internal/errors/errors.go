// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrNoActiveAccount  = errors.New("no active account selected")
	ErrTradeNotFound    = errors.New("trade not found")
	ErrStrategyNotFound = errors.New("strategy not found")
	ErrStrategyInUse    = errors.New("strategy is referenced by trades")
	ErrDuplicateName    = errors.New("name already in use")
	ErrUndoExpired      = errors.New("undo window expired")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
	ErrInputValidation  = errors.New("input validation failed")
)

// StoreError represents an error from the record store.
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Collection, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(collection, op string, err error) *StoreError {
	return &StoreError{
		Collection: collection,
		Op:         op,
		Err:        err,
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

func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ReportError represents a failure in a single report section. Other
// sections keep rendering when one fails.
type ReportError struct {
	Section string
	Err     error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report section [%s]: %v", e.Section, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError.
func NewReportError(section string, err error) *ReportError {
	return &ReportError{
		Section: section,
		Err:     err,
	}
}

// RiskWarning represents a soft risk-limit violation. It is surfaced to
// the user but does not block the trade.
type RiskWarning struct {
	Rule    string
	Current float64
	Limit   float64
	Message string
}

func (e *RiskWarning) Error() string {
	return fmt.Sprintf("risk warning [%s]: %s (current: %.2f, limit: %.2f)", e.Rule, e.Message, e.Current, e.Limit)
}

// NewRiskWarning creates a new RiskWarning.
func NewRiskWarning(rule string, current, limit float64, message string) *RiskWarning {
	return &RiskWarning{
		Rule:    rule,
		Current: current,
		Limit:   limit,
		Message: message,
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
