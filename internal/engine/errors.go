package engine

import (
	"errors"
	"fmt"
)

// BuildErrorCode categorizes rejected engine configurations.
type BuildErrorCode string

const (
	// ErrCodeUnknownCollection indicates a rule watches a collection that was not registered.
	ErrCodeUnknownCollection BuildErrorCode = "UNKNOWN_COLLECTION"

	// ErrCodeInvalidPredicate indicates a rule predicate failed to compile.
	ErrCodeInvalidPredicate BuildErrorCode = "INVALID_PREDICATE"

	// ErrCodeDuplicateAchievement indicates two catalog entries share an id.
	ErrCodeDuplicateAchievement BuildErrorCode = "DUPLICATE_ACHIEVEMENT"

	// ErrCodeDuplicateCollection indicates two collections share a name.
	ErrCodeDuplicateCollection BuildErrorCode = "DUPLICATE_COLLECTION"
)

// BuildError is returned by New when the catalog and collections disagree.
type BuildError struct {
	Code          BuildErrorCode
	AchievementID string
	Collection    string
	Message       string
	Err           error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.AchievementID != "" {
		msg += fmt.Sprintf(" (achievement=%s", e.AchievementID)
		if e.Collection != "" {
			msg += fmt.Sprintf(", collection=%s", e.Collection)
		}
		msg += ")"
	} else if e.Collection != "" {
		msg += fmt.Sprintf(" (collection=%s)", e.Collection)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsUnknownCollection returns true if err rejects a rule for watching an
// unregistered collection.
func IsUnknownCollection(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeUnknownCollection
	}
	return false
}

// IsInvalidPredicate returns true if err rejects a rule whose predicate
// does not compile.
func IsInvalidPredicate(err error) bool {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidPredicate
	}
	return false
}
