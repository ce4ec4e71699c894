package wizard

import (
	"context"
	"fmt"
	"sort"
)

// GuardFunc decides whether a transition may proceed. A non-nil error
// rejects the transition and is returned to the caller wrapped in ErrGuardFailed.
type GuardFunc func(ctx context.Context) error

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder interface {
	// Configure returns a step configuration for the given step
	Configure(step Step) StepConfiguration

	// Build creates a new state machine instance positioned at the initial step
	Build(initial Step) StateMachine
}

// StepConfiguration configures outgoing transitions for a specific step
type StepConfiguration interface {
	// Permit allows a trigger to move to the target step
	Permit(trigger Trigger, to Step) StepConfiguration

	// PermitIf allows a trigger to move to the target step if the guard passes
	PermitIf(trigger Trigger, to Step, guard GuardFunc) StepConfiguration
}

type transition struct {
	to    Step
	guard GuardFunc
}

type stepConfig struct {
	from        Step
	transitions map[Trigger]transition
}

type stateMachineBuilder struct {
	configurations map[Step]*stepConfig
}

type stateMachine struct {
	current        Step
	configurations map[Step]*stepConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[Step]*stepConfig),
	}
}

// Configure returns a step configuration for the given step
func (b *stateMachineBuilder) Configure(step Step) StepConfiguration {
	if !step.IsValid() {
		panic(fmt.Sprintf("invalid step: %s", step))
	}

	config, exists := b.configurations[step]
	if !exists {
		config = &stepConfig{
			from:        step,
			transitions: make(map[Trigger]transition),
		}
		b.configurations[step] = config
	}

	return config
}

// Build creates a new state machine instance. The configuration is copied so
// later changes to the builder do not leak into machines already built.
func (b *stateMachineBuilder) Build(initial Step) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial step: %s", initial))
	}

	configsCopy := make(map[Step]*stepConfig, len(b.configurations))
	for step, config := range b.configurations {
		transitionsCopy := make(map[Trigger]transition, len(config.transitions))
		for trigger, t := range config.transitions {
			transitionsCopy[trigger] = t
		}
		configsCopy[step] = &stepConfig{
			from:        step,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		current:        initial,
		configurations: configsCopy,
	}
}

// Permit allows a trigger to move to the target step
func (c *stepConfig) Permit(trigger Trigger, to Step) StepConfiguration {
	return c.PermitIf(trigger, to, nil)
}

// PermitIf allows a trigger to move to the target step if the guard passes.
// A step has at most one transition per trigger; configuring it twice panics.
func (c *stepConfig) PermitIf(trigger Trigger, to Step, guard GuardFunc) StepConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target step: %s", to))
	}
	if _, exists := c.transitions[trigger]; exists {
		panic(fmt.Sprintf("trigger %s already configured for step %s", trigger, c.from))
	}

	c.transitions[trigger] = transition{
		to:    to,
		guard: guard,
	}

	return c
}

// Step returns the current step
func (m *stateMachine) Step() Step {
	return m.current
}

// CanFire returns true if the trigger is configured for the current step.
// Guards are not evaluated.
func (m *stateMachine) CanFire(trigger Trigger) bool {
	config, exists := m.configurations[m.current]
	if !exists {
		return false
	}

	_, exists = config.transitions[trigger]
	return exists
}

// Fire attempts to execute the trigger. The step only changes when the
// trigger is configured and its guard, if any, passes.
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	config, exists := m.configurations[m.current]
	if !exists {
		return fmt.Errorf("%w: cannot fire %s from %s (no configuration)", ErrInvalidTransition, trigger, m.current)
	}

	t, exists := config.transitions[trigger]
	if !exists {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	if t.guard != nil {
		if err := t.guard(ctx); err != nil {
			return fmt.Errorf("%w: %s from %s: %w", ErrGuardFailed, trigger, m.current, err)
		}
	}

	m.current = t.to
	return nil
}

// PermittedTriggers returns all triggers configured for the current step, sorted
func (m *stateMachine) PermittedTriggers() []Trigger {
	config, exists := m.configurations[m.current]
	if !exists {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(config.transitions))
	for trigger := range config.transitions {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })

	return triggers
}
