package exercise

import "errors"

var (
	// ErrClosed is returned by every Timer command after Close.
	ErrClosed = errors.New("exercise: timer closed")

	// ErrNoPhases is returned when a timed definition has no phases.
	ErrNoPhases = errors.New("exercise: definition has no phases")

	// ErrInvalidDuration is returned when a timed phase does not last at least one second.
	ErrInvalidDuration = errors.New("exercise: phase duration must be positive")

	// ErrAtFirstStep is returned by Previous on the first step.
	ErrAtFirstStep = errors.New("exercise: already at first step")

	// ErrAtLastStep is returned by Next on the last manual step.
	ErrAtLastStep = errors.New("exercise: already at last step")

	// ErrResponseRequired is returned by Next when an input step gets a blank response.
	ErrResponseRequired = errors.New("exercise: response required")

	// ErrFinished is returned by Next once the wizard is finished.
	ErrFinished = errors.New("exercise: wizard finished")
)
