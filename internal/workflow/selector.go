package workflow

import (
	"context"
	"fmt"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"go.uber.org/zap"
)

// PolicySelector picks the approval policy applicable to an expense.
//
// Selection ignores the policy's applicability conditions: exactly one policy
// per company is flagged default and active, and that one is always chosen.
// The conditions fields stay in the data model for configuration but do not
// participate in matching.
type PolicySelector struct {
	policies port.PolicyRepository
	logger   *zap.Logger
}

// NewPolicySelector creates a new policy selector
func NewPolicySelector(policies port.PolicyRepository, logger *zap.Logger) *PolicySelector {
	return &PolicySelector{
		policies: policies,
		logger:   logger,
	}
}

// Select returns the company's default active policy, or nil if the company
// has no configured workflow.
func (s *PolicySelector) Select(ctx context.Context, companyID int64) (*entity.Policy, error) {
	policy, err := s.policies.GetDefaultActive(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select policy for company %d: %w", companyID, err)
	}

	if policy == nil {
		s.logger.Info("No default active policy for company", zap.Int64("company_id", companyID))
		return nil, nil
	}

	return policy, nil
}
