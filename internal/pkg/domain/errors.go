package domain

import "fmt"

// ValidationError signals a domain-rule violation. The caller can recover by
// supplying different input; the operation is never retried automatically.
type ValidationError struct {
	Message string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ForbiddenError signals that the caller lacks the required role or ownership
// relationship for the operation.
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new ForbiddenError.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Entity, e.ID)
}

// ConflictError signals that an entity was modified concurrently and the
// operation lost the race.
type ConflictError struct {
	Message string
}

// NewConflictError creates a new ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidStateError signals a status transition that the state machine does
// not permit.
type InvalidStateError struct {
	From string
	To   string
}

// NewInvalidStateError creates a new InvalidStateError.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
