package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MadhavDodiya/expense-management/internal/application/port"
	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// In-memory databases exist per connection.
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../../migrations/001_initial_schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func seedUser(t *testing.T, repo *UserRepository, user *entity.User) *entity.User {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newExpense(userID, companyID int64, approvals []entity.ApprovalEntry) *entity.Expense {
	if approvals == nil {
		approvals = []entity.ApprovalEntry{}
	}
	return &entity.Expense{
		Reference:           "EXP-" + time.Now().Format("150405.000000000"),
		UserID:              userID,
		CompanyID:           companyID,
		Title:               "Test expense",
		Amount:              100,
		Currency:            "USD",
		ConvertedAmount:     100,
		Category:            entity.CategoryFood,
		ExpenseDate:         time.Now().UTC(),
		Status:              entity.StatusPending,
		Approvals:           approvals,
		ReimbursementStatus: entity.ReimbursementPending,
	}
}

func TestExpenseCreateAndGet(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db, zap.NewNop())
	repo := NewExpenseRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Ann", Email: "ann@example.com", Role: entity.RoleEmployee, Active: true})

	expense := newExpense(owner.ID, 1, []entity.ApprovalEntry{
		{ApproverID: 42, Status: entity.EntryPending, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, expense))
	assert.NotZero(t, expense.ID)
	assert.Equal(t, int64(1), expense.Version)

	got, err := repo.GetByID(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, expense.Reference, got.Reference)
	require.Len(t, got.Approvals, 1)
	assert.Equal(t, int64(42), got.Approvals[0].ApproverID)
	assert.Equal(t, entity.EntryPending, got.Approvals[0].Status)

	byRef, err := repo.GetByReference(ctx, expense.Reference)
	require.NoError(t, err)
	assert.Equal(t, expense.ID, byRef.ID)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseUpdateVersionConflict(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db, zap.NewNop())
	repo := NewExpenseRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Ann", Email: "ann@example.com", Active: true})
	expense := newExpense(owner.ID, 1, nil)
	require.NoError(t, repo.Create(ctx, expense))

	stale, err := repo.GetByID(ctx, expense.ID)
	require.NoError(t, err)

	expense.Status = entity.StatusRejected
	require.NoError(t, repo.Update(ctx, expense))
	assert.Equal(t, int64(2), expense.Version)

	stale.Status = entity.StatusApproved
	err = repo.Update(ctx, stale)
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err := repo.GetByID(ctx, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, got.Status)
}

func TestListPendingForApprover(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db, zap.NewNop())
	repo := NewExpenseRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Ann", Email: "ann@example.com", Active: true})

	withPending := newExpense(owner.ID, 1, []entity.ApprovalEntry{
		{ApproverID: 42, Status: entity.EntryPending, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, withPending))

	decided := newExpense(owner.ID, 1, []entity.ApprovalEntry{
		{ApproverID: 42, Status: entity.EntryApproved, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, decided))

	otherApprover := newExpense(owner.ID, 1, []entity.ApprovalEntry{
		{ApproverID: 43, Status: entity.EntryPending, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, otherApprover))

	queue, err := repo.ListPendingForApprover(ctx, 42)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, withPending.ID, queue[0].ID)
}

func TestListUnassignedForManager(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db, zap.NewNop())
	repo := NewExpenseRepository(db, zap.NewNop())
	ctx := context.Background()

	manager := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Meg", Email: "meg@example.com", Role: entity.RoleManager, Active: true})
	report := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Ann", Email: "ann@example.com", ManagerID: &manager.ID, Active: true})
	outsider := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Bob", Email: "bob@example.com", Active: true})

	chainless := newExpense(report.ID, 1, nil)
	require.NoError(t, repo.Create(ctx, chainless))

	chained := newExpense(report.ID, 1, []entity.ApprovalEntry{
		{ApproverID: manager.ID, Status: entity.EntryPending, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, chained))

	notAReport := newExpense(outsider.ID, 1, nil)
	require.NoError(t, repo.Create(ctx, notAReport))

	queue, err := repo.ListUnassignedForManager(ctx, manager.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, chainless.ID, queue[0].ID)
}

func TestListDecidedByApprover(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db, zap.NewNop())
	repo := NewExpenseRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Ann", Email: "ann@example.com", Active: true})

	approved := newExpense(owner.ID, 1, []entity.ApprovalEntry{
		{ApproverID: 42, Status: entity.EntryApproved, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, approved))

	pending := newExpense(owner.ID, 1, []entity.ApprovalEntry{
		{ApproverID: 42, Status: entity.EntryPending, StepNumber: 1},
	})
	require.NoError(t, repo.Create(ctx, pending))

	history, err := repo.ListDecidedByApprover(ctx, 42, port.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, approved.ID, history[0].ID)
}

func TestListByUserFilters(t *testing.T) {
	db := setupDB(t)
	users := NewUserRepository(db, zap.NewNop())
	repo := NewExpenseRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := seedUser(t, users, &entity.User{CompanyID: 1, FirstName: "Ann", Email: "ann@example.com", Active: true})

	food := newExpense(owner.ID, 1, nil)
	require.NoError(t, repo.Create(ctx, food))

	travel := newExpense(owner.ID, 1, nil)
	travel.Category = entity.CategoryTravel
	travel.Status = entity.StatusApproved
	require.NoError(t, repo.Create(ctx, travel))

	byCategory, err := repo.ListByUser(ctx, owner.ID, port.ExpenseFilter{Category: entity.CategoryTravel})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, travel.ID, byCategory[0].ID)

	byStatus, err := repo.ListByUser(ctx, owner.ID, port.ExpenseFilter{Status: entity.StatusPending})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, food.ID, byStatus[0].ID)
}
