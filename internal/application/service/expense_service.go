package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"github.com/MadhavDodiya/expense-management/internal/workflow"
	"github.com/MadhavDodiya/expense-management/pkg/utils"
)

// CreateExpenseInput is the payload for creating and submitting an expense.
type CreateExpenseInput struct {
	Title       string
	Description string
	Amount      float64
	Currency    string
	Category    string
	ExpenseDate time.Time
}

// ExpenseService manages expense creation and retrieval
type ExpenseService interface {
	Create(ctx context.Context, actor Actor, input CreateExpenseInput) (*entity.Expense, error)
	Get(ctx context.Context, actor Actor, id int64) (*entity.Expense, error)
	List(ctx context.Context, actor Actor, filter port.ExpenseFilter) ([]*entity.Expense, error)
}

type expenseServiceImpl struct {
	expenses     port.ExpenseRepository
	controller   *workflow.Controller
	converter    port.CurrencyConverter
	baseCurrency string
	logger       *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenses port.ExpenseRepository,
	controller *workflow.Controller,
	converter port.CurrencyConverter,
	baseCurrency string,
	logger *zap.Logger,
) ExpenseService {
	if baseCurrency == "" {
		baseCurrency = "USD"
	}
	return &expenseServiceImpl{
		expenses:     expenses,
		controller:   controller,
		converter:    converter,
		baseCurrency: strings.ToUpper(baseCurrency),
		logger:       logger,
	}
}

// Create validates the input, converts the amount into the base currency,
// submits the expense through the workflow and persists it. The stored
// expense is always PENDING with its approval chain seeded (possibly empty).
func (s *expenseServiceImpl) Create(ctx context.Context, actor Actor, input CreateExpenseInput) (*entity.Expense, error) {
	if err := utils.ValidateAmount(input.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := utils.ValidateCurrency(strings.ToUpper(input.Currency)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	category := strings.ToUpper(input.Category)
	if !entity.ValidCategories[category] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, input.Category)
	}
	title := utils.SanitizeString(strings.TrimSpace(input.Title))
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	converted, err := s.converter.Convert(ctx, input.Amount, strings.ToUpper(input.Currency), s.baseCurrency)
	if err != nil {
		// Conversion is best-effort; a rate outage must not block
		// submission. Fall back to the original amount.
		s.logger.Warn("Currency conversion failed, using original amount",
			zap.String("currency", input.Currency),
			zap.Error(err))
		converted = input.Amount
	}

	now := time.Now()
	expense := &entity.Expense{
		Reference:           newReference(),
		UserID:              actor.UserID,
		CompanyID:           actor.CompanyID,
		Title:               title,
		Description:         utils.SanitizeString(input.Description),
		Amount:              input.Amount,
		Currency:            strings.ToUpper(input.Currency),
		ConvertedAmount:     converted,
		Category:            category,
		ExpenseDate:         input.ExpenseDate,
		Status:              entity.StatusDraft,
		ReimbursementStatus: entity.ReimbursementPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = now
	}

	if err := s.controller.Submit(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to submit expense: %w", err)
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense created",
		zap.Int64("expense_id", expense.ID),
		zap.String("reference", expense.Reference),
		zap.Int64("user_id", actor.UserID))

	return expense, nil
}

// Get returns a single expense. Visible to its owner, to any approver on
// its chain, and to company administrators.
func (s *expenseServiceImpl) Get(ctx context.Context, actor Actor, id int64) (*entity.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canView(actor, expense) {
		return nil, ErrAccessDenied
	}

	return expense, nil
}

// List returns the caller's expenses. Administrators see the whole company.
func (s *expenseServiceImpl) List(ctx context.Context, actor Actor, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	if actor.IsAdmin() {
		return s.expenses.ListByCompany(ctx, actor.CompanyID, filter)
	}
	return s.expenses.ListByUser(ctx, actor.UserID, filter)
}

func canView(actor Actor, expense *entity.Expense) bool {
	if expense.CompanyID != actor.CompanyID {
		return false
	}
	if expense.UserID == actor.UserID || actor.IsAdmin() {
		return true
	}
	for i := range expense.Approvals {
		if expense.Approvals[i].ApproverID == actor.UserID {
			return true
		}
	}
	return false
}

// newReference generates a human-readable unique expense reference.
func newReference() string {
	return "EXP-" + strings.ToUpper(uuid.NewString()[:8])
}
