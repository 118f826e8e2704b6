package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	domainwf "github.com/MadhavDodiya/expense-management/internal/domain/workflow"
	"go.uber.org/zap"
)

// Controller drives the expense approval lifecycle: on submission it selects
// a policy and seeds the approval chain, and on each decision it updates the
// chain and applies the resulting state transition.
//
// The controller mutates the expense in memory only; persistence and the
// per-expense lock are the caller's responsibility. It performs no I/O
// beyond its read-only collaborators.
type Controller struct {
	selector *PolicySelector
	builder  *ChainBuilder
	policies port.PolicyRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewController creates a new workflow controller
func NewController(selector *PolicySelector, builder *ChainBuilder, policies port.PolicyRepository, logger *zap.Logger) *Controller {
	return &Controller{
		selector: selector,
		builder:  builder,
		policies: policies,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit binds the applicable policy to the expense and seeds its approval
// chain. The expense always ends PENDING:
//
//   - policy found, chain non-empty: policy bound, chain seeded
//   - policy found, chain empty: policy bound for audit, ledger left empty
//   - no policy, or directory resolution failed: ledger left empty
//
// An empty ledger enables the manual-fallback path, where a single ad-hoc
// decision settles the expense. It is never auto-approved.
func (c *Controller) Submit(ctx context.Context, expense *entity.Expense) error {
	machine, err := domainwf.NewExpenseMachine(domainwf.State(expense.Status))
	if err != nil {
		return err
	}
	if machine.State() != domainwf.StateDraft {
		return fmt.Errorf("%w: cannot submit from %s", domainwf.ErrInvalidTransition, expense.Status)
	}

	policy, err := c.selector.Select(ctx, expense.CompanyID)
	if err != nil {
		// Policy lookup failure degrades to the policy-absent path so a
		// misconfigured workflow never blocks submission.
		c.logger.Error("Policy selection failed, expense left for manual review",
			zap.Int64("expense_id", expense.ID),
			zap.Error(err))
		policy = nil
	}

	if policy != nil {
		entries, err := c.builder.Build(ctx, expense, policy)
		if err != nil {
			if errors.Is(err, ErrDirectoryResolution) {
				c.logger.Error("Chain build failed, expense left for manual review",
					zap.Int64("expense_id", expense.ID),
					zap.Int64("policy_id", policy.ID),
					zap.Error(err))
				policy = nil
				entries = nil
			} else {
				return err
			}
		}

		if policy != nil {
			expense.PolicyID = &policy.ID
			expense.CurrentStep = 0
			expense.Approvals = entries
		}
	}

	if err := machine.Fire(domainwf.TriggerSubmit); err != nil {
		return err
	}
	expense.Status = machine.State().String()

	c.logger.Info("Expense submitted",
		zap.Int64("expense_id", expense.ID),
		zap.Bool("policy_bound", expense.PolicyID != nil),
		zap.Int("approvers", len(expense.Approvals)))

	return nil
}

// Decide records one approver's decision and applies the resulting
// transition. A REJECTED decision is terminal immediately; an APPROVED
// decision approves the expense only once the policy's completion rule is
// satisfied. Expenses without a bound policy settle on the first decision.
//
// The expense must be PENDING; anything else fails with ErrNotPending and
// leaves the record untouched.
func (c *Controller) Decide(ctx context.Context, expense *entity.Expense, approverID int64, decision, comments string) error {
	if decision != entity.EntryApproved && decision != entity.EntryRejected {
		return ErrInvalidDecision
	}
	if expense.Status != entity.StatusPending {
		return fmt.Errorf("%w: expense %d is %s", ErrNotPending, expense.ID, expense.Status)
	}

	machine, err := domainwf.NewExpenseMachine(domainwf.State(expense.Status))
	if err != nil {
		return err
	}

	// An empty ledger before recording marks the manual-fallback path:
	// the single ad-hoc decision settles the expense directly.
	manual := len(expense.Approvals) == 0

	now := c.now()
	entries, idx, err := RecordDecision(expense.Approvals, approverID, decision, comments, now)
	if err != nil {
		return err
	}
	expense.Approvals = entries

	if decision == entity.EntryRejected {
		if err := machine.Fire(domainwf.TriggerReject); err != nil {
			return err
		}
		expense.Status = machine.State().String()
		expense.RejectionReason = comments

		c.logger.Info("Expense rejected",
			zap.Int64("expense_id", expense.ID),
			zap.Int64("approver_id", approverID),
			zap.Int("entry", idx))
		return nil
	}

	complete := manual
	if !complete {
		complete, err = c.completionSatisfied(ctx, expense)
		if err != nil {
			return err
		}
	}
	if !complete {
		c.logger.Info("Decision recorded, expense still pending",
			zap.Int64("expense_id", expense.ID),
			zap.Int64("approver_id", approverID),
			zap.Int("entry", idx))
		return nil
	}

	if err := machine.Fire(domainwf.TriggerApprove); err != nil {
		return err
	}
	expense.Status = machine.State().String()
	expense.ApprovalDate = &now
	expense.ApprovedAmount = expense.ConvertedAmount

	c.logger.Info("Expense fully approved",
		zap.Int64("expense_id", expense.ID),
		zap.Int64("approver_id", approverID),
		zap.Float64("approved_amount", expense.ApprovedAmount))

	return nil
}

// completionSatisfied evaluates the bound policy's rule against the chain.
// Without a bound policy there is exactly one ad-hoc entry by now, so the
// first APPROVED decision settles the expense.
func (c *Controller) completionSatisfied(ctx context.Context, expense *entity.Expense) (bool, error) {
	if !expense.HasPolicy() {
		return true, nil
	}

	policy, err := c.policies.GetByID(ctx, *expense.PolicyID)
	if err != nil {
		return false, fmt.Errorf("failed to load policy %d: %w", *expense.PolicyID, err)
	}
	if policy == nil {
		// Bound policy deleted since submission; treat like the absent
		// path rather than blocking the chain forever.
		c.logger.Warn("Bound policy no longer exists, treating expense as unmanaged",
			zap.Int64("expense_id", expense.ID),
			zap.Int64("policy_id", *expense.PolicyID))
		return true, nil
	}

	return Evaluate(expense.Approvals, policy.Rule), nil
}
