package workflow

import (
	"context"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

// Mock collaborators in the style of func-field fakes.

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
	return nil, nil
}

type mockPolicyRepo struct {
	getDefaultActiveFunc func(ctx context.Context, companyID int64) (*entity.Policy, error)
	getByIDFunc          func(ctx context.Context, id int64) (*entity.Policy, error)
}

func (m *mockPolicyRepo) Create(ctx context.Context, policy *entity.Policy) error { return nil }

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
	return nil, nil
}
