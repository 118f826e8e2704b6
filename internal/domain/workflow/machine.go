package workflow

import "fmt"

// GuardFunc evaluates whether a transition should be allowed
type GuardFunc func() bool

// transition is a target state with an optional guard
type transition struct {
	toState State
	guard   GuardFunc
}

// Machine tracks the current state of one expense and validates transitions
// against a closed table. Illegal triggers fail with ErrInvalidTransition
// instead of silently mutating status.
type Machine struct {
	current     State
	transitions map[State]map[Trigger][]transition
}

// Builder assembles a transition table before any machine is constructed
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

// NewBuilder creates an empty transition table builder
func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger][]transition)}
}

// Permit allows a trigger to move from one state to another
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	return b.PermitIf(from, trigger, to, nil)
}

// PermitIf allows the transition only while the guard returns true
func (b *Builder) PermitIf(from State, trigger Trigger, to State, guard GuardFunc) *Builder {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid source state: %s", from))
	}
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}

	byTrigger, ok := b.transitions[from]
	if !ok {
		byTrigger = make(map[Trigger][]transition)
		b.transitions[from] = byTrigger
	}
	byTrigger[trigger] = append(byTrigger[trigger], transition{toState: to, guard: guard})
	return b
}

// Build creates a machine positioned at the given initial state
func (b *Builder) Build(initial State) (*Machine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initial)
	}
	return &Machine{current: initial, transitions: b.transitions}, nil
}

// State returns the current state
func (m *Machine) State() State {
	return m.current
}

// CanFire returns true if the trigger has at least one configured transition
// from the current state
func (m *Machine) CanFire(trigger Trigger) bool {
	byTrigger, ok := m.transitions[m.current]
	if !ok {
		return false
	}
	return len(byTrigger[trigger]) > 0
}

// Fire executes the trigger, moving to the first target whose guard passes
func (m *Machine) Fire(trigger Trigger) error {
	byTrigger, ok := m.transitions[m.current]
	if !ok {
		return fmt.Errorf("%w: trigger %s from state %s", ErrInvalidTransition, trigger, m.current)
	}

	candidates := byTrigger[trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: trigger %s from state %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range candidates {
		if t.guard == nil || t.guard() {
			m.current = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.current)
}

// NewExpenseMachine builds the expense lifecycle machine at the given state.
// DRAFT and PROCESSING are owned by external flows; the engine only drives
// PENDING to its terminal states.
func NewExpenseMachine(initial State) (*Machine, error) {
	return NewBuilder().
		Permit(StateDraft, TriggerSubmit, StatePending).
		Permit(StatePending, TriggerApprove, StateApproved).
		Permit(StatePending, TriggerReject, StateRejected).
		Permit(StateApproved, TriggerProcess, StateProcessing).
		Build(initial)
}
