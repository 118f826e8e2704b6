package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MadhavDodiya/expense-management/internal/domain/entity"
	"go.uber.org/zap"
)

// PolicyRepository handles approval policy database operations. Steps,
// conditions and the completion rule are embedded as JSON columns, the way
// the policy document nests them.
type PolicyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *sql.DB, logger *zap.Logger) *PolicyRepository {
	return &PolicyRepository{
		db:     db,
		logger: logger,
	}
}

const policyColumns = `
	id, company_id, name, description, active, is_default,
	conditions, steps, completion_rule, created_at, updated_at
`

// Create inserts a new policy
func (r *PolicyRepository) Create(ctx context.Context, policy *entity.Policy) error {
	conditions, err := json.Marshal(policy.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}
	steps, err := json.Marshal(policy.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}
	rule, err := json.Marshal(policy.Rule)
	if err != nil {
		return fmt.Errorf("failed to marshal completion rule: %w", err)
	}

	now := time.Now()
	policy.CreatedAt = now
	policy.UpdatedAt = now

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO policies (
			company_id, name, description, active, is_default,
			conditions, steps, completion_rule, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		policy.CompanyID,
		policy.Name,
		policy.Description,
		policy.Active,
		policy.Default,
		string(conditions),
		string(steps),
		string(rule),
		policy.CreatedAt,
		policy.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create policy", zap.Error(err))
		return fmt.Errorf("failed to create policy: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	policy.ID = id
	return nil
}

// GetByID retrieves a policy by ID, or nil when it does not exist
func (r *PolicyRepository) GetByID(ctx context.Context, id int64) (*entity.Policy, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+policyColumns+" FROM policies WHERE id = ?", id)

	policy, err := r.scanPolicy(row)
	if err == ErrNotFound {
		return nil, nil
	}
	return policy, err
}

// GetDefaultActive retrieves the company's single default active policy, or
// nil when the company has no configured workflow
func (r *PolicyRepository) GetDefaultActive(ctx context.Context, companyID int64) (*entity.Policy, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+policyColumns+` FROM policies
		 WHERE company_id = ? AND active = 1 AND is_default = 1
		 LIMIT 1`, companyID)

	policy, err := r.scanPolicy(row)
	if err == ErrNotFound {
		return nil, nil
	}
	return policy, err
}

// ListByCompany retrieves all of a company's policies
func (r *PolicyRepository) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Policy, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+policyColumns+" FROM policies WHERE company_id = ? ORDER BY id", companyID)
	if err != nil {
		r.logger.Error("Failed to list policies", zap.Error(err))
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []*entity.Policy
	for rows.Next() {
		policy, err := r.scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}
	return policies, rows.Err()
}

func (r *PolicyRepository) scanPolicy(row rowScanner) (*entity.Policy, error) {
	var policy entity.Policy
	var conditions, steps, rule string

	err := row.Scan(
		&policy.ID,
		&policy.CompanyID,
		&policy.Name,
		&policy.Description,
		&policy.Active,
		&policy.Default,
		&conditions,
		&steps,
		&rule,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to scan policy", zap.Error(err))
		return nil, fmt.Errorf("failed to scan policy: %w", err)
	}

	if err := json.Unmarshal([]byte(conditions), &policy.Conditions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
	}
	if err := json.Unmarshal([]byte(steps), &policy.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	if err := json.Unmarshal([]byte(rule), &policy.Rule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal completion rule: %w", err)
	}

	return &policy, nil
}
