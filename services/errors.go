package services

import "fmt"

// ConflictError indicates a duplicate outstanding request for the same guest,
// an advance on an already-done task, or a duplicate bill settle.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s could not be found.", e.Resource)
}

// AuthorizationError indicates the caller's role is not permitted for the
// requested role-scoped view or action.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ValidationError indicates malformed input or an unsupported task type.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps an underlying persistence failure. Fatal for the current
// operation, never retried here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
