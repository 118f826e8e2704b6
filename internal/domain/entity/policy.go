package entity

import "time"

// Step is one stage of an approval policy, resolving to zero or more approvers.
type Step struct {
	StepNumber        int     `json:"step_number"`
	Name              string  `json:"name"`
	ApproverType      string  `json:"approver_type"`
	Approvers         []int64 `json:"approvers,omitempty"`
	Role              string  `json:"role,omitempty"`
	RequiredApprovals int     `json:"required_approvals"`
	Optional          bool    `json:"optional"`
	// EscalationHours is stored configuration only; no scheduler acts on it.
	EscalationHours int `json:"escalation_hours"`
}

// CompletionRule is the predicate deciding when an expense is fully approved.
type CompletionRule struct {
	Kind               string `json:"kind"`
	Percentage         int    `json:"percentage,omitempty"`
	SpecificApproverID int64  `json:"specific_approver_id,omitempty"`
	// BypassOthers is stored but has no effect on evaluation.
	BypassOthers bool `json:"bypass_others,omitempty"`
	// Operator combines the percentage and specific-approver sub-rules
	// for HYBRID policies.
	Operator string `json:"operator,omitempty"`
}

// PolicyConditions holds applicability conditions. They are persisted with the
// policy but not evaluated by selection: the single default active policy is
// always chosen.
type PolicyConditions struct {
	MinAmount   float64  `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Departments []string `json:"departments,omitempty"`
}

// Policy is a company's configured approval workflow template.
type Policy struct {
	ID          int64            `json:"id"`
	CompanyID   int64            `json:"company_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Active      bool             `json:"active"`
	Default     bool             `json:"default"`
	Conditions  PolicyConditions `json:"conditions"`
	Steps       []Step           `json:"steps"`
	Rule        CompletionRule   `json:"rule"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
