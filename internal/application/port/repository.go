package port

import (
	"context"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Status   string
	Category string
	UserID   int64
	Limit    int
	Offset   int
}

// ExpenseRepository defines persistence operations for Expense.
// Approval entries are embedded in the expense record, so every mutation of
// the chain goes through Update.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id int64) (*entity.Expense, error)
	GetByReference(ctx context.Context, reference string) (*entity.Expense, error)

	// Update persists the full expense row. The stored version must match
	// expense.Version or the update fails with ErrVersionConflict; on
	// success the version is incremented.
	Update(ctx context.Context, expense *entity.Expense) error

	ListByUser(ctx context.Context, userID int64, filter ExpenseFilter) ([]*entity.Expense, error)
	ListByCompany(ctx context.Context, companyID int64, filter ExpenseFilter) ([]*entity.Expense, error)

	// ListPendingForApprover returns PENDING expenses holding a PENDING
	// entry for the approver.
	ListPendingForApprover(ctx context.Context, approverID int64) ([]*entity.Expense, error)

	// ListUnassignedForManager returns PENDING expenses with an empty
	// approval chain owned by a direct report of the manager. This is the
	// documented bypass of the formal chain for the manual-fallback path.
	ListUnassignedForManager(ctx context.Context, managerID int64) ([]*entity.Expense, error)

	// ListDecidedByApprover returns expenses carrying a decided entry by
	// the approver, most recent decisions first.
	ListDecidedByApprover(ctx context.Context, approverID int64, filter ExpenseFilter) ([]*entity.Expense, error)
}

// PolicyRepository defines persistence operations for Policy.
type PolicyRepository interface {
	Create(ctx context.Context, policy *entity.Policy) error
	GetByID(ctx context.Context, id int64) (*entity.Policy, error)

	// GetDefaultActive returns the company's single default active policy,
	// or nil if none is configured.
	GetDefaultActive(ctx context.Context, companyID int64) (*entity.Policy, error)

	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Policy, error)
}

// UserRepository defines persistence operations for User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.User, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
