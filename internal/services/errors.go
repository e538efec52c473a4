package services

import (
	"errors"
	"fmt"
)

// ValidationError represents a rejected input, raised before any write
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// NotFoundError represents an operation targeting a missing entity
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new not-found error
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) (*NotFoundError, bool) {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return notFoundErr, true
	}
	return nil, false
}

// InvalidTransitionError represents a reviewer decision that the current
// verification status does not permit
type InvalidTransitionError struct {
	From     string `json:"from"`
	Decision string `json:"decision"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a payment whose verification status is %s", e.Decision, e.From)
}

// NewInvalidTransitionError creates a new invalid-transition error
func NewInvalidTransitionError(from, decision string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Decision: decision}
}

// IsInvalidTransitionError checks if an error is an InvalidTransitionError
func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	var transitionErr *InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return transitionErr, true
	}
	return nil, false
}

// ConcurrencyConflictError represents a compare-and-swap that lost to another
// reviewer and could not be resolved by re-reading current state
type ConcurrencyConflictError struct {
	Resource string `json:"resource"`
	ID       string `json:"id"`
	Current  string `json:"current"`
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently (now %s)", e.Resource, e.ID, e.Current)
}

// NewConcurrencyConflictError creates a new concurrency conflict error
func NewConcurrencyConflictError(resource, id, current string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Resource: resource, ID: id, Current: current}
}

// IsConcurrencyConflictError checks if an error is a ConcurrencyConflictError
func IsConcurrencyConflictError(err error) (*ConcurrencyConflictError, bool) {
	var conflictErr *ConcurrencyConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr, true
	}
	return nil, false
}

// PersistenceError represents an underlying write failure. Partial is set
// when some writes of a logical unit had already been applied and manual
// reconciliation is required.
type PersistenceError struct {
	Operation string `json:"operation"`
	Partial   bool   `json:"partial"`
	Err       error  `json:"-"`
}

func (e *PersistenceError) Error() string {
	if e.Partial {
		return fmt.Sprintf("%s partially applied, manual reconciliation required: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(operation string, partial bool, err error) *PersistenceError {
	return &PersistenceError{Operation: operation, Partial: partial, Err: err}
}

// IsPersistenceError checks if an error is a PersistenceError
func IsPersistenceError(err error) (*PersistenceError, bool) {
	var persistenceErr *PersistenceError
	if errors.As(err, &persistenceErr) {
		return persistenceErr, true
	}
	return nil, false
}
