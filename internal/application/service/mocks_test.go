package service

import (
	"context"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"github.com/MadhavDodiya/expense-management/internal/repository"
)

// Mock repositories and collaborators, wired per-test through func fields.

type mockExpenseRepo struct {
	createFunc                  func(ctx context.Context, expense *entity.Expense) error
	getByIDFunc                 func(ctx context.Context, id int64) (*entity.Expense, error)
	updateFunc                  func(ctx context.Context, expense *entity.Expense) error
	listByUserFunc              func(ctx context.Context, userID int64, filter port.ExpenseFilter) ([]*entity.Expense, error)
	listByCompanyFunc           func(ctx context.Context, companyID int64, filter port.ExpenseFilter) ([]*entity.Expense, error)
	listPendingForApproverFunc  func(ctx context.Context, approverID int64) ([]*entity.Expense, error)
	listUnassignedForManagerFunc func(ctx context.Context, managerID int64) ([]*entity.Expense, error)
	listDecidedByApproverFunc   func(ctx context.Context, approverID int64, filter port.ExpenseFilter) ([]*entity.Expense, error)
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, expense)
	}
	expense.ID = 1
	expense.Version = 1
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockExpenseRepo) GetByReference(ctx context.Context, reference string) (*entity.Expense, error) {
	return nil, repository.ErrNotFound
}

func (m *mockExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, expense)
	}
	expense.Version++
	return nil
}

func (m *mockExpenseRepo) ListByUser(ctx context.Context, userID int64, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID, filter)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseRepo) ListByCompany(ctx context.Context, companyID int64, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	if m.listByCompanyFunc != nil {
		return m.listByCompanyFunc(ctx, companyID, filter)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseRepo) ListPendingForApprover(ctx context.Context, approverID int64) ([]*entity.Expense, error) {
	if m.listPendingForApproverFunc != nil {
		return m.listPendingForApproverFunc(ctx, approverID)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseRepo) ListUnassignedForManager(ctx context.Context, managerID int64) ([]*entity.Expense, error) {
	if m.listUnassignedForManagerFunc != nil {
		return m.listUnassignedForManagerFunc(ctx, managerID)
	}
	return []*entity.Expense{}, nil
}

func (m *mockExpenseRepo) ListDecidedByApprover(ctx context.Context, approverID int64, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	if m.listDecidedByApproverFunc != nil {
		return m.listDecidedByApproverFunc(ctx, approverID, filter)
	}
	return []*entity.Expense{}, nil
}

type mockPolicyRepo struct {
	getByIDFunc          func(ctx context.Context, id int64) (*entity.Policy, error)
	getDefaultActiveFunc func(ctx context.Context, companyID int64) (*entity.Policy, error)
}

func (m *mockPolicyRepo) Create(ctx context.Context, policy *entity.Policy) error {
	return nil
}

func (m *mockPolicyRepo) GetByID(ctx context.Context, id int64) (*entity.Policy, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPolicyRepo) GetDefaultActive(ctx context.Context, companyID int64) (*entity.Policy, error) {
	if m.getDefaultActiveFunc != nil {
		return m.getDefaultActiveFunc(ctx, companyID)
	}
	return nil, nil
}

func (m *mockPolicyRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Policy, error) {
	return []*entity.Policy{}, nil
}

type mockDirectory struct {
	managerOfFunc     func(ctx context.Context, userID int64) (*entity.User, error)
	usersWithRoleFunc func(ctx context.Context, companyID int64, role string) ([]*entity.User, error)
}

func (m *mockDirectory) ManagerOf(ctx context.Context, userID int64) (*entity.User, error) {
	if m.managerOfFunc != nil {
		return m.managerOfFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockDirectory) UsersWithRole(ctx context.Context, companyID int64, role string) ([]*entity.User, error) {
	if m.usersWithRoleFunc != nil {
		return m.usersWithRoleFunc(ctx, companyID, role)
	}
	return []*entity.User{}, nil
}

type mockConverter struct {
	convertFunc func(ctx context.Context, amount float64, from, to string) (float64, error)
}

func (m *mockConverter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if m.convertFunc != nil {
		return m.convertFunc(ctx, amount, from, to)
	}
	return amount, nil
}
