package workflow

import "errors"

var (
	// ErrNotPending is returned when a decision is recorded against an
	// expense that already left the PENDING state. No mutation is applied.
	ErrNotPending = errors.New("expense is not pending approval")

	// ErrNoPendingApproval is returned when the caller holds no PENDING
	// entry on a non-empty approval chain.
	ErrNoPendingApproval = errors.New("no pending approval found for this user")

	// ErrInvalidDecision is returned for decisions outside APPROVED/REJECTED.
	ErrInvalidDecision = errors.New("decision must be APPROVED or REJECTED")

	// ErrDirectoryResolution wraps failures of manager or role lookups
	// during chain building. Submission degrades to the policy-absent path
	// rather than failing.
	ErrDirectoryResolution = errors.New("directory resolution failed")

	// ErrApproverOutsideCompany is returned when a decision comes from a
	// user outside the expense's company.
	ErrApproverOutsideCompany = errors.New("approver does not belong to the expense's company")
)
