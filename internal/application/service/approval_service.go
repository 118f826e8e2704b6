package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"github.com/MadhavDodiya/expense-management/internal/workflow"
)

// ApprovalService records approver decisions and serves approval queues
type ApprovalService interface {
	// Decide applies one approver decision to the expense and persists the
	// result. Decisions on the same expense are serialized.
	Decide(ctx context.Context, actor Actor, expenseID int64, decision, comments string) (*entity.Expense, error)

	// ListPending returns the caller's approval queue.
	ListPending(ctx context.Context, actor Actor) ([]*entity.Expense, error)

	// History returns expenses the caller has already decided on.
	History(ctx context.Context, actor Actor, filter port.ExpenseFilter) ([]*entity.Expense, error)
}

type approvalServiceImpl struct {
	expenses   port.ExpenseRepository
	controller *workflow.Controller
	locks      *workflow.KeyedMutex
	logger     *zap.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	expenses port.ExpenseRepository,
	controller *workflow.Controller,
	logger *zap.Logger,
) ApprovalService {
	return &approvalServiceImpl{
		expenses:   expenses,
		controller: controller,
		locks:      workflow.NewKeyedMutex(),
		logger:     logger,
	}
}

func (s *approvalServiceImpl) Decide(ctx context.Context, actor Actor, expenseID int64, decision, comments string) (*entity.Expense, error) {
	s.locks.Lock(expenseID)
	defer s.locks.Unlock(expenseID)

	expense, err := s.expenses.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.CompanyID != actor.CompanyID {
		return nil, workflow.ErrApproverOutsideCompany
	}

	if err := s.controller.Decide(ctx, expense, actor.UserID, decision, comments); err != nil {
		return nil, err
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to persist decision: %w", err)
	}

	s.logger.Info("Decision persisted",
		zap.Int64("expense_id", expenseID),
		zap.Int64("approver_id", actor.UserID),
		zap.String("decision", decision),
		zap.String("status", expense.Status))

	return expense, nil
}

// ListPending assembles the caller's queue:
//
//   - everyone sees expenses holding a PENDING entry for them
//   - administrators see every PENDING expense in the company
//   - managers additionally see chainless PENDING expenses of their direct
//     reports, which only the manual-fallback path can settle
func (s *approvalServiceImpl) ListPending(ctx context.Context, actor Actor) ([]*entity.Expense, error) {
	if actor.IsAdmin() {
		return s.expenses.ListByCompany(ctx, actor.CompanyID, port.ExpenseFilter{
			Status: entity.StatusPending,
			Limit:  100,
		})
	}

	queue, err := s.expenses.ListPendingForApprover(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if actor.IsManager() {
		unassigned, err := s.expenses.ListUnassignedForManager(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		queue = mergeExpenses(queue, unassigned)
	}

	return queue, nil
}

func (s *approvalServiceImpl) History(ctx context.Context, actor Actor, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	return s.expenses.ListDecidedByApprover(ctx, actor.UserID, filter)
}

func mergeExpenses(a, b []*entity.Expense) []*entity.Expense {
	seen := make(map[int64]bool, len(a))
	for _, e := range a {
		seen[e.ID] = true
	}
	for _, e := range b {
		if !seen[e.ID] {
			a = append(a, e)
			seen[e.ID] = true
		}
	}
	return a
}
