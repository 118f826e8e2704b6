package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"go.uber.org/zap"
)

// SQLDirectory implements port.Directory over the users table. The workflow
// engine only sees the Directory capability and stays independent of where
// user records live.
type SQLDirectory struct {
	users  *UserRepository
	logger *zap.Logger
}

// NewSQLDirectory creates a directory backed by the user repository
func NewSQLDirectory(users *UserRepository, logger *zap.Logger) *SQLDirectory {
	return &SQLDirectory{
		users:  users,
		logger: logger,
	}
}

// ManagerOf resolves the reporting manager of a user. A user without a
// manager yields nil, not an error.
func (d *SQLDirectory) ManagerOf(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	if user.ManagerID == nil {
		return nil, nil
	}

	manager, err := d.users.GetByID(ctx, *user.ManagerID)
	if errors.Is(err, ErrNotFound) {
		// Dangling manager reference: treat like no manager.
		d.logger.Warn("Manager reference points at missing user",
			zap.Int64("user_id", userID),
			zap.Int64("manager_id", *user.ManagerID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manager of user %d: %w", userID, err)
	}
	return manager, nil
}

// UsersWithRole resolves the active company members holding a role
func (d *SQLDirectory) UsersWithRole(ctx context.Context, companyID int64, role string) ([]*entity.User, error) {
	members, err := d.users.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company %d users: %w", companyID, err)
	}

	var matched []*entity.User
	for _, member := range members {
		if member.Active && member.Role == role {
			matched = append(matched, member)
		}
	}
	return matched, nil
}
