package workflow

// State represents a stage of the expense lifecycle
type State string

const (
	StateDraft      State = "DRAFT"
	StatePending    State = "PENDING"
	StateApproved   State = "APPROVED"
	StateRejected   State = "REJECTED"
	StateProcessing State = "PROCESSING"
)

var validStates = map[State]bool{
	StateDraft:      true,
	StatePending:    true,
	StateApproved:   true,
	StateRejected:   true,
	StateProcessing: true,
}

// REJECTED and PROCESSING never transition again; APPROVED only moves
// forward via the reimbursement flow, which is outside this engine.
var terminalStates = map[State]bool{
	StateRejected:   true,
	StateProcessing: true,
}

// IsTerminal returns true if no further transitions are allowed from the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid expense state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
