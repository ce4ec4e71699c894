package wizard

import "context"

// StateMachine tracks the current step and validates transitions.
// Implementations are not safe for concurrent use.
type StateMachine interface {
	// Step returns the current step
	Step() Step

	// CanFire returns true if the trigger is configured for the current step
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, moving to the target step if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers configured for the current step
	PermittedTriggers() []Trigger
}
