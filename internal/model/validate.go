package model

import (
	"fmt"
	"strings"
	"time"
)

// Anxiety levels are on a 0-10 scale.
const (
	MinAnxiety = 0
	MaxAnxiety = 10
)

// FieldError reports a record field that fails validation.
type FieldError struct {
	RecordID string
	Field    string
	Message  string
}

func (e *FieldError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("record %s: %s: %s", e.RecordID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks field ranges and required fields.
func (e EmotionalLogEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return &FieldError{Field: "id", Message: "is required"}
	}
	if e.Date.IsZero() {
		return &FieldError{RecordID: e.ID, Field: "date", Message: "is required"}
	}
	if e.AnxietyLevel < MinAnxiety || e.AnxietyLevel > MaxAnxiety {
		return &FieldError{RecordID: e.ID, Field: "anxietyLevel", Message: fmt.Sprintf("must be within [%d,%d], got %d", MinAnxiety, MaxAnxiety, e.AnxietyLevel)}
	}
	return nil
}

// Validate checks required fields.
func (r ThoughtRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &FieldError{Field: "id", Message: "is required"}
	}
	if r.Date.IsZero() {
		return &FieldError{RecordID: r.ID, Field: "date", Message: "is required"}
	}
	return nil
}

// Validate checks field ranges and required fields.
func (s ExposureStep) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &FieldError{Field: "id", Message: "is required"}
	}
	if s.TargetAnxiety < MinAnxiety || s.TargetAnxiety > MaxAnxiety {
		return &FieldError{RecordID: s.ID, Field: "targetAnxiety", Message: fmt.Sprintf("must be within [%d,%d], got %d", MinAnxiety, MaxAnxiety, s.TargetAnxiety)}
	}
	if s.Repetitions < 1 {
		return &FieldError{RecordID: s.ID, Field: "repetitions", Message: fmt.Sprintf("must be at least 1, got %d", s.Repetitions)}
	}
	return nil
}

// Validate checks that unlocked and dateUnlocked agree.
func (a Achievement) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return &FieldError{Field: "id", Message: "is required"}
	}
	if a.Unlocked && a.DateUnlocked == nil {
		return &FieldError{RecordID: a.ID, Field: "dateUnlocked", Message: "is required once unlocked"}
	}
	if !a.Unlocked && a.DateUnlocked != nil {
		return &FieldError{RecordID: a.ID, Field: "dateUnlocked", Message: "must be empty while locked"}
	}
	return nil
}

// Valid reports whether f is a known feeling or unselected.
func (f Feeling) Valid() bool {
	if f == FeelingUnselected {
		return true
	}
	for _, known := range Feelings {
		if f == known {
			return true
		}
	}
	return false
}

// Validate checks that Timezone, when set, names a known IANA zone.
func (p Preferences) Validate() error {
	if p.Timezone == "" {
		return nil
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return &FieldError{Field: "timezone", Message: fmt.Sprintf("unknown zone %q", p.Timezone)}
	}
	return nil
}

// ValidateCollection validates each record and checks ids are unique.
func ValidateCollection[T interface {
	Identified
	Validate() error
}](records []T) error {
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		id := rec.RecordID()
		if seen[id] {
			return fmt.Errorf("[%d]: %w", i, &FieldError{RecordID: id, Field: "id", Message: "duplicate id in collection"})
		}
		seen[id] = true
	}
	return nil
}

// IndexOf returns the position of the record with id, or -1.
func IndexOf[T Identified](records []T, id string) int {
	for i, rec := range records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// Without returns a new slice with the record matching id removed.
// Remaining records keep their relative order. The result is never nil.
func Without[T Identified](records []T, id string) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if rec.RecordID() != id {
			out = append(out, rec)
		}
	}
	return out
}

// Replace returns a new slice with the record matching next's id replaced.
// It reports false if no record carries that id.
func Replace[T Identified](records []T, next T) ([]T, bool) {
	idx := IndexOf(records, next.RecordID())
	if idx < 0 {
		return records, false
	}
	out := make([]T, len(records))
	copy(out, records)
	out[idx] = next
	return out, true
}

// CheckAchievementTransition rejects a write that re-locks an achievement or
// changes the unlock date of one already unlocked.
func CheckAchievementTransition(prev, next []Achievement) error {
	for _, before := range prev {
		if !before.Unlocked {
			continue
		}
		idx := IndexOf(next, before.ID)
		if idx < 0 {
			return &FieldError{RecordID: before.ID, Field: "unlocked", Message: "unlocked achievement cannot be removed"}
		}
		after := next[idx]
		if !after.Unlocked {
			return &FieldError{RecordID: before.ID, Field: "unlocked", Message: "cannot be re-locked"}
		}
		if before.DateUnlocked == nil {
			continue
		}
		if after.DateUnlocked == nil || !after.DateUnlocked.Equal(*before.DateUnlocked) {
			return &FieldError{RecordID: before.ID, Field: "dateUnlocked", Message: "cannot change once set"}
		}
	}
	return nil
}
