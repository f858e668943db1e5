package nonconformity

import "fmt"

// ValidationError reports a malformed or missing input field.
// It is recoverable and meant to be surfaced as a field-level message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field string, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an unknown nonconformity record.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nonconformity %s not found", e.Ref)
}

func NewNotFoundError(ref string) *NotFoundError {
	return &NotFoundError{Ref: ref}
}

// InvalidReferenceError reports a catalog id that does not exist.
type InvalidReferenceError struct {
	Kind string
	ID   uint64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("unknown %s id %d", e.Kind, e.ID)
}

func NewInvalidReferenceError(kind string, id uint64) *InvalidReferenceError {
	return &InvalidReferenceError{Kind: kind, ID: id}
}

// ConflictError reports an operation whose precondition on the current
// record state does not hold, for example closing an already-closed record.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func NewConflictError(reason string) *ConflictError {
	return &ConflictError{Reason: reason}
}

// StorageError wraps a repository failure. The engine does not retry;
// callers may at their discretion.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
