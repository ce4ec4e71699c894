package wizard

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted in the current step
	ErrInvalidTransition = errors.New("invalid step transition")

	// ErrInvalidStep is returned when a step is not valid
	ErrInvalidStep = errors.New("invalid step")

	// ErrGuardFailed is returned when a guard condition rejects a transition
	ErrGuardFailed = errors.New("guard condition failed")
)
