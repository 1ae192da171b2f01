package postgres

import (
	"context"
	"errors"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/billing"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, tenant_id, plan_id, status, start_date, end_date,
	auto_renew, cancelled_at, cancellation_reason, created_at, updated_at`

func scanSubscription(row pgx.Row) (*billing.Subscription, error) {
	var s billing.Subscription
	err := row.Scan(
		&s.ID, &s.TenantID, &s.PlanID, &s.Status, &s.StartDate, &s.EndDate,
		&s.AutoRenew, &s.CancelledAt, &s.CancellationReason, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &s, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	query := `
		INSERT INTO subscriptions (tenant_id, plan_id, status, start_date, end_date, auto_renew)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.TenantID, s.PlanID, s.Status, s.StartDate, s.EndDate, s.AutoRenew,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*billing.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE id = $1`, subscriptionColumns)
	return scanSubscription(r.db.QueryRow(ctx, query, id))
}

func (r *SubscriptionRepository) List(ctx context.Context, filter *access.Filter) ([]*billing.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions`, subscriptionColumns)
	var args []interface{}
	if filter != nil {
		clause, arg := filter.Clause(1)
		query += " WHERE " + clause
		args = append(args, arg)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*billing.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// UpdateStatus transitions a subscription and returns the updated record.
func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id int64, status billing.SubscriptionStatus, reason string) (*billing.Subscription, error) {
	query := fmt.Sprintf(`
		UPDATE subscriptions
		SET status = $1,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END,
		    cancellation_reason = CASE WHEN $1 = 'cancelled' AND $2 <> '' THEN $2 ELSE cancellation_reason END,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING %s`, subscriptionColumns)

	return scanSubscription(r.db.QueryRow(ctx, query, status, reason, id))
}
