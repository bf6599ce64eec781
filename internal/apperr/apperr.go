// Package apperr defines the typed error taxonomy shared by every pipeline
// component: ValidationError, NotFound, ConflictError, DataAbsent, and
// IntegrityError. Components either return a structured result with
// success=false plus errors/warnings, or raise one of these types; the
// underlying Go error (and any stack) is never exposed to callers.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError means the input violates a MANDATORY rule or a missing
// prerequisite; the operation is aborted before any write.
type ValidationError struct {
	BlockingErrors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.BlockingErrors)
}

func NewValidationError(errs ...string) *ValidationError {
	return &ValidationError{BlockingErrors: errs}
}

// NotFound means the referenced entity does not exist.
type NotFound struct {
	Entity string
	ID     string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFound {
	return &NotFound{Entity: entity, ID: id}
}

// ConflictError means a state transition was illegal given the entity's
// current state (locking a non-BASELINE run, cancelling a non-PENDING
// convocation, and so on).
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// DataAbsent means a computation depends on data not yet ingested. Callers
// should emit a structured "no data" response tagging the affected days
// rather than fail the whole operation.
type DataAbsent struct {
	Reason        string
	AffectedDates []string
}

func (e *DataAbsent) Error() string {
	return fmt.Sprintf("data absent: %s", e.Reason)
}

func NewDataAbsent(reason string, dates ...string) *DataAbsent {
	return &DataAbsent{Reason: reason, AffectedDates: dates}
}

// IntegrityError means a post-write invariant was violated; the caller must
// roll back the enclosing transaction.
type IntegrityError struct {
	Invariant string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: %s", e.Invariant)
}

func NewIntegrityError(invariant string) *IntegrityError {
	return &IntegrityError{Invariant: invariant}
}

// As* helpers let callers branch on taxonomy without repeating errors.As
// boilerplate at every call site.

func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	return v, errors.As(err, &v)
}

func AsNotFound(err error) (*NotFound, bool) {
	var v *NotFound
	return v, errors.As(err, &v)
}

func AsConflictError(err error) (*ConflictError, bool) {
	var v *ConflictError
	return v, errors.As(err, &v)
}

func AsDataAbsent(err error) (*DataAbsent, bool) {
	var v *DataAbsent
	return v, errors.As(err, &v)
}

func AsIntegrityError(err error) (*IntegrityError, bool) {
	var v *IntegrityError
	return v, errors.As(err, &v)
}
