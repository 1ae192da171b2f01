package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"egovpapua-service/internal/domain/plan"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, slug, description, price, billing_interval,
	target_tenant_type, features, limits, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*plan.Plan, error) {
	var p plan.Plan
	var featuresJSON, limitsJSON []byte

	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Interval,
		&p.TargetTenantType, &featuresJSON, &limitsJSON, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan plan: %w", err)
	}

	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &p.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}
	if len(limitsJSON) > 0 {
		if err := json.Unmarshal(limitsJSON, &p.Limits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal limits: %w", err)
		}
	}
	return &p, nil
}

func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `
		INSERT INTO subscription_plans (
			name, slug, description, price, billing_interval,
			target_tenant_type, features, limits, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	featuresJSON, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	limitsJSON, err := json.Marshal(p.Limits)
	if err != nil {
		return fmt.Errorf("failed to marshal limits: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		p.Name, p.Slug, p.Description, p.Price, p.Interval,
		p.TargetTenantType, featuresJSON, limitsJSON, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if isUniqueViolation(err) {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans WHERE id = $1`, planColumns)
	return scanPlan(r.db.QueryRow(ctx, query, id))
}

// List returns plans, optionally only the active ones.
func (r *PlanRepository) List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscription_plans`, planColumns)
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY price"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `
		UPDATE subscription_plans
		SET name = $1, description = $2, price = $3, target_tenant_type = $4,
		    features = $5, limits = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	featuresJSON, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}
	limitsJSON, err := json.Marshal(p.Limits)
	if err != nil {
		return fmt.Errorf("failed to marshal limits: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		p.Name, p.Description, p.Price, p.TargetTenantType,
		featuresJSON, limitsJSON, p.ID,
	).Scan(&p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

// SetActive toggles plan availability. This is the only mutation allowed on a
// plan once subscriptions reference it.
func (r *PlanRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `
		UPDATE subscription_plans
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to toggle plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
