package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"go.uber.org/zap"
)

// ExpenseRepository handles expense database operations. The approval chain
// is embedded in the expense row as a JSON array, matching the document
// shape, and queried with SQLite's json_each.
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

const expenseColumns = `
	id, reference, user_id, company_id, title, description,
	amount, currency, converted_amount, category, expense_date,
	status, policy_id, current_step, approvals, rejection_reason,
	approved_amount, approval_date, reimbursement_status, version,
	created_at, updated_at
`

// Create inserts a new expense row
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	approvals, err := json.Marshal(expense.Approvals)
	if err != nil {
		return fmt.Errorf("failed to marshal approvals: %w", err)
	}

	now := time.Now()
	expense.Version = 1
	expense.CreatedAt = now
	expense.UpdatedAt = now

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (
			reference, user_id, company_id, title, description,
			amount, currency, converted_amount, category, expense_date,
			status, policy_id, current_step, approvals, rejection_reason,
			approved_amount, approval_date, reimbursement_status, version,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		expense.Reference,
		expense.UserID,
		expense.CompanyID,
		expense.Title,
		expense.Description,
		expense.Amount,
		expense.Currency,
		expense.ConvertedAmount,
		expense.Category,
		expense.ExpenseDate,
		expense.Status,
		expense.PolicyID,
		expense.CurrentStep,
		string(approvals),
		expense.RejectionReason,
		expense.ApprovedAmount,
		expense.ApprovalDate,
		expense.ReimbursementStatus,
		expense.Version,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	expense.ID = id
	return nil
}

// GetByID retrieves an expense by ID, or ErrNotFound
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	return r.scanExpense(row)
}

// GetByReference retrieves an expense by its public reference
func (r *ExpenseRepository) GetByReference(ctx context.Context, reference string) (*entity.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE reference = ?", reference)
	return r.scanExpense(row)
}

// Update persists the full expense row with an optimistic version check.
// The whole chain is rewritten in one UPDATE, so decision application is
// atomic at the row level.
func (r *ExpenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	approvals, err := json.Marshal(expense.Approvals)
	if err != nil {
		return fmt.Errorf("failed to marshal approvals: %w", err)
	}

	expense.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET
			title = ?, description = ?, amount = ?, currency = ?,
			converted_amount = ?, category = ?, expense_date = ?,
			status = ?, policy_id = ?, current_step = ?, approvals = ?,
			rejection_reason = ?, approved_amount = ?, approval_date = ?,
			reimbursement_status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`,
		expense.Title,
		expense.Description,
		expense.Amount,
		expense.Currency,
		expense.ConvertedAmount,
		expense.Category,
		expense.ExpenseDate,
		expense.Status,
		expense.PolicyID,
		expense.CurrentStep,
		string(approvals),
		expense.RejectionReason,
		expense.ApprovedAmount,
		expense.ApprovalDate,
		expense.ReimbursementStatus,
		expense.UpdatedAt,
		expense.ID,
		expense.Version,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", zap.Int64("id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", expense.ID, ErrVersionConflict)
	}

	expense.Version++
	return nil
}

// ListByUser retrieves a user's expenses with optional status/category filters
func (r *ExpenseRepository) ListByUser(ctx context.Context, userID int64, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	query, args := buildListQuery("user_id = ?", []interface{}{userID}, filter)
	return r.queryExpenses(ctx, query, args...)
}

// ListByCompany retrieves a company's expenses with optional filters
func (r *ExpenseRepository) ListByCompany(ctx context.Context, companyID int64, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	conds := []string{"company_id = ?"}
	args := []interface{}{companyID}
	if filter.UserID != 0 {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	query, args := buildListQuery(strings.Join(conds, " AND "), args, filter)
	return r.queryExpenses(ctx, query, args...)
}

// ListPendingForApprover retrieves PENDING expenses holding a PENDING entry
// for the approver
func (r *ExpenseRepository) ListPendingForApprover(ctx context.Context, approverID int64) ([]*entity.Expense, error) {
	query := "SELECT " + expenseColumns + ` FROM expenses
		WHERE status = 'PENDING'
		AND EXISTS (
			SELECT 1 FROM json_each(expenses.approvals)
			WHERE json_extract(json_each.value, '$.approver_id') = ?
			AND json_extract(json_each.value, '$.status') = 'PENDING'
		)
		ORDER BY created_at DESC`
	return r.queryExpenses(ctx, query, approverID)
}

// ListUnassignedForManager retrieves PENDING expenses with an empty chain
// owned by the manager's direct reports
func (r *ExpenseRepository) ListUnassignedForManager(ctx context.Context, managerID int64) ([]*entity.Expense, error) {
	query := "SELECT " + expenseColumns + ` FROM expenses
		WHERE status = 'PENDING'
		AND json_array_length(approvals) = 0
		AND user_id IN (SELECT id FROM users WHERE manager_id = ?)
		ORDER BY created_at DESC`
	return r.queryExpenses(ctx, query, managerID)
}

// ListDecidedByApprover retrieves expenses carrying a decided entry by the
// approver, most recently decided first
func (r *ExpenseRepository) ListDecidedByApprover(ctx context.Context, approverID int64, filter port.ExpenseFilter) ([]*entity.Expense, error) {
	entryStatus := "json_extract(json_each.value, '$.status') != 'PENDING'"
	args := []interface{}{approverID}
	if filter.Status != "" {
		entryStatus = "json_extract(json_each.value, '$.status') = ?"
		args = append(args, filter.Status)
	}

	query := "SELECT " + expenseColumns + ` FROM expenses
		WHERE EXISTS (
			SELECT 1 FROM json_each(expenses.approvals)
			WHERE json_extract(json_each.value, '$.approver_id') = ?
			AND ` + entryStatus + `
		)
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)
	return r.queryExpenses(ctx, query, args...)
}

func buildListQuery(baseCond string, args []interface{}, filter port.ExpenseFilter) (string, []interface{}) {
	conds := []string{baseCond}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}

	query := "SELECT " + expenseColumns + " FROM expenses WHERE " +
		strings.Join(conds, " AND ") +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)
	return query, args
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*entity.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	for rows.Next() {
		expense, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ExpenseRepository) scanExpense(row rowScanner) (*entity.Expense, error) {
	var expense entity.Expense
	var policyID sql.NullInt64
	var approvalDate sql.NullTime
	var approvalsJSON string

	err := row.Scan(
		&expense.ID,
		&expense.Reference,
		&expense.UserID,
		&expense.CompanyID,
		&expense.Title,
		&expense.Description,
		&expense.Amount,
		&expense.Currency,
		&expense.ConvertedAmount,
		&expense.Category,
		&expense.ExpenseDate,
		&expense.Status,
		&policyID,
		&expense.CurrentStep,
		&approvalsJSON,
		&expense.RejectionReason,
		&expense.ApprovedAmount,
		&approvalDate,
		&expense.ReimbursementStatus,
		&expense.Version,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to scan expense", zap.Error(err))
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	if policyID.Valid {
		expense.PolicyID = &policyID.Int64
	}
	if approvalDate.Valid {
		expense.ApprovalDate = &approvalDate.Time
	}

	expense.Approvals = []entity.ApprovalEntry{}
	if approvalsJSON != "" {
		if err := json.Unmarshal([]byte(approvalsJSON), &expense.Approvals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal approvals: %w", err)
		}
	}
	if expense.Approvals == nil {
		expense.Approvals = []entity.ApprovalEntry{}
	}

	return &expense, nil
}
