package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"go.uber.org/zap"
)

// ChainBuilder expands a policy's ordered steps into the concrete list of
// approval entries for one expense. Entries are created once here; membership
// never changes afterwards.
type ChainBuilder struct {
	directory port.Directory
	logger    *zap.Logger
}

// NewChainBuilder creates a new chain builder
func NewChainBuilder(directory port.Directory, logger *zap.Logger) *ChainBuilder {
	return &ChainBuilder{
		directory: directory,
		logger:    logger,
	}
}

// Build resolves every step of the policy against the org directory and
// returns one PENDING entry per resolved approver, in ascending step order.
// A submitter without a manager yields zero approvers for a
// REPORTING_MANAGER step; that is not an error. Duplicate approvers across
// steps each get their own entry.
//
// Directory failures abort the build with ErrDirectoryResolution; the caller
// decides how submission degrades.
func (b *ChainBuilder) Build(ctx context.Context, expense *entity.Expense, policy *entity.Policy) ([]entity.ApprovalEntry, error) {
	steps := make([]entity.Step, len(policy.Steps))
	copy(steps, policy.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepNumber < steps[j].StepNumber
	})

	var entries []entity.ApprovalEntry

	for _, step := range steps {
		approvers, err := b.resolveStep(ctx, expense, step)
		if err != nil {
			return nil, err
		}

		for _, approverID := range approvers {
			entries = append(entries, entity.ApprovalEntry{
				ApproverID: approverID,
				Status:     entity.EntryPending,
				StepNumber: step.StepNumber,
			})
		}
	}

	b.logger.Info("Approval chain built",
		zap.Int64("expense_id", expense.ID),
		zap.Int64("policy_id", policy.ID),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// resolveStep returns the approver IDs for one step
func (b *ChainBuilder) resolveStep(ctx context.Context, expense *entity.Expense, step entity.Step) ([]int64, error) {
	switch step.ApproverType {
	case entity.ApproverReportingManager:
		manager, err := b.directory.ManagerOf(ctx, expense.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: manager lookup for user %d: %v", ErrDirectoryResolution, expense.UserID, err)
		}
		if manager == nil {
			b.logger.Info("Submitter has no manager, step resolves to no approvers",
				zap.Int64("expense_id", expense.ID),
				zap.Int("step", step.StepNumber))
			return nil, nil
		}
		return []int64{manager.ID}, nil

	case entity.ApproverFixedUserList, entity.ApproverAnyOfList:
		return step.Approvers, nil

	case entity.ApproverRoleMembers:
		members, err := b.directory.UsersWithRole(ctx, expense.CompanyID, step.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: role lookup %q for company %d: %v", ErrDirectoryResolution, step.Role, expense.CompanyID, err)
		}
		ids := make([]int64, 0, len(members))
		for _, member := range members {
			ids = append(ids, member.ID)
		}
		return ids, nil

	default:
		b.logger.Warn("Unknown approver type, step resolves to no approvers",
			zap.Int64("expense_id", expense.ID),
			zap.Int("step", step.StepNumber),
			zap.String("approver_type", step.ApproverType))
		return nil, nil
	}
}
