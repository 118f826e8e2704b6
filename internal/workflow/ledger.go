package workflow

import (
	"time"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

// RecordDecision applies one approver's decision to the expense's approval
// chain. It matches the first entry where the approver holds a PENDING vote
// and sets its status, comments and action date in place.
//
// If the chain is empty, no workflow was ever bound: a single ad-hoc entry
// (step 0) is appended directly in the decided state. This is the
// manual-fallback path for expenses without a configured workflow.
//
// If the chain is non-empty and the approver holds no PENDING entry, the
// call fails with ErrNoPendingApproval and nothing is mutated.
//
// The returned slice shares storage with the input except on the ad-hoc
// path; the returned index names the decided entry.
func RecordDecision(entries []entity.ApprovalEntry, approverID int64, decision, comments string, now time.Time) ([]entity.ApprovalEntry, int, error) {
	if decision != entity.EntryApproved && decision != entity.EntryRejected {
		return entries, -1, ErrInvalidDecision
	}

	if len(entries) == 0 {
		entries = append(entries, entity.ApprovalEntry{
			ApproverID: approverID,
			Status:     decision,
			Comments:   comments,
			ActionDate: &now,
			StepNumber: 0,
		})
		return entries, 0, nil
	}

	for i := range entries {
		if entries[i].ApproverID == approverID && entries[i].Status == entity.EntryPending {
			entries[i].Status = decision
			entries[i].Comments = comments
			entries[i].ActionDate = &now
			return entries, i, nil
		}
	}

	return entries, -1, ErrNoPendingApproval
}
