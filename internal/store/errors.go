package store

import (
	"errors"
	"fmt"
)

// Error codes for rejected writes.
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeTransitionRejected = "TRANSITION_REJECTED"
	ErrCodeEncodeFailed       = "ENCODE_FAILED"
)

// Error is returned when a write is rejected. The slot keeps its previous value.
type Error struct {
	Code    string
	Key     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Key, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a rejected write caused by
// field, shape or transition validation.
func IsValidationError(err error) bool {
	var storeErr *Error
	if !errors.As(err, &storeErr) {
		return false
	}
	return storeErr.Code == ErrCodeValidationFailed || storeErr.Code == ErrCodeTransitionRejected
}

// ErrorCode returns the code of a store error, or "" if err is not one.
func ErrorCode(err error) string {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return ""
}
