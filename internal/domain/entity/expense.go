package entity

import "time"

// ApprovalEntry is one approver's pending or decided vote against one expense.
// Entries are created once when the approval chain is built; their status is
// mutated in place and they are never deleted or reordered.
type ApprovalEntry struct {
	ApproverID int64      `json:"approver_id"`
	Status     string     `json:"status"`
	Comments   string     `json:"comments,omitempty"`
	ActionDate *time.Time `json:"action_date,omitempty"`
	StepNumber int        `json:"step_number"`
}

// IsDecided returns true once the entry left the PENDING state.
func (e *ApprovalEntry) IsDecided() bool {
	return e.Status != EntryPending
}

// Expense represents a submitted expense with its embedded approval chain.
type Expense struct {
	ID                  int64           `json:"id"`
	Reference           string          `json:"reference"`
	UserID              int64           `json:"user_id"`
	CompanyID           int64           `json:"company_id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Amount              float64         `json:"amount"`
	Currency            string          `json:"currency"`
	ConvertedAmount     float64         `json:"converted_amount"`
	Category            string          `json:"category"`
	ExpenseDate         time.Time       `json:"expense_date"`
	Status              string          `json:"status"`
	PolicyID            *int64          `json:"policy_id,omitempty"`
	CurrentStep         int             `json:"current_step"`
	Approvals           []ApprovalEntry `json:"approvals"`
	RejectionReason     string          `json:"rejection_reason,omitempty"`
	ApprovedAmount      float64         `json:"approved_amount"`
	ApprovalDate        *time.Time      `json:"approval_date,omitempty"`
	ReimbursementStatus string          `json:"reimbursement_status"`
	Version             int64           `json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// HasPolicy returns true if a workflow policy was bound at submission time.
func (e *Expense) HasPolicy() bool {
	return e.PolicyID != nil
}

// PendingEntryFor returns the index of the first PENDING entry owned by the
// given approver, or -1 if none exists.
func (e *Expense) PendingEntryFor(approverID int64) int {
	for i := range e.Approvals {
		if e.Approvals[i].ApproverID == approverID && e.Approvals[i].Status == EntryPending {
			return i
		}
	}
	return -1
}
