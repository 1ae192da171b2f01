package postgres

import (
	"context"
	"errors"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TenantRepository struct {
	db *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

const tenantColumns = `id, name, slug, type, contact_address, contact_phone,
	contact_email, contact_website, subscription_status, subscription_id,
	created_at, updated_at`

func scanTenant(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Type, &t.ContactAddress, &t.ContactPhone,
		&t.ContactEmail, &t.ContactWebsite, &t.Status, &t.SubscriptionID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	return &t, nil
}

// Create inserts a tenant. New tenants always start on trial.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (
			name, slug, type, contact_address, contact_phone,
			contact_email, contact_website, subscription_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.Name, t.Slug, t.Type, t.ContactAddress, t.ContactPhone,
		t.ContactEmail, t.ContactWebsite, tenant.SubscriptionTrial,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if isUniqueViolation(err) {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	t.Status = tenant.SubscriptionTrial
	return nil
}

func (r *TenantRepository) FindByID(ctx context.Context, id int64) (*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE id = $1`, tenantColumns)
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *TenantRepository) FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE slug = $1`, tenantColumns)
	return scanTenant(r.db.QueryRow(ctx, query, slug))
}

// List returns tenants, optionally restricted by an access filter on id
// (tenant users only ever see their own row).
func (r *TenantRepository) List(ctx context.Context, filter *access.Filter) ([]*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants`, tenantColumns)
	var args []interface{}
	if filter != nil {
		clause, arg := filter.Clause(1)
		query += " WHERE " + clause
		args = append(args, arg)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *TenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, contact_address = $2, contact_phone = $3,
		    contact_email = $4, contact_website = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		t.Name, t.ContactAddress, t.ContactPhone,
		t.ContactEmail, t.ContactWebsite, t.ID,
	).Scan(&t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return nil
}

// UpdateSubscriptionStatus writes the derived tenant-level status. It always
// issues the write, even when the value is unchanged.
func (r *TenantRepository) UpdateSubscriptionStatus(ctx context.Context, id int64, status tenant.SubscriptionStatus) error {
	query := `
		UPDATE tenants
		SET subscription_status = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update tenant subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetActiveSubscription points the tenant at its active subscription record.
func (r *TenantRepository) SetActiveSubscription(ctx context.Context, id, subscriptionID int64) error {
	query := `
		UPDATE tenants
		SET subscription_id = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, subscriptionID, id)
	if err != nil {
		return fmt.Errorf("failed to set tenant active subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
