package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"egovpapua-service/internal/domain/template"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, name, slug, description, target_tenant_type, demo_url,
	default_colors, features, is_active, is_default, is_premium, created_at, updated_at`

func scanTemplate(row pgx.Row) (*template.Template, error) {
	var t template.Template
	var colorsJSON, featuresJSON []byte

	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.TargetTenantType, &t.DemoURL,
		&colorsJSON, &featuresJSON, &t.IsActive, &t.IsDefault, &t.IsPremium,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan template: %w", err)
	}

	if len(colorsJSON) > 0 {
		if err := json.Unmarshal(colorsJSON, &t.DefaultColors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal default colors: %w", err)
		}
	}
	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &t.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}
	return &t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, t *template.Template) error {
	query := `
		INSERT INTO templates (
			name, slug, description, target_tenant_type, demo_url,
			default_colors, features, is_active, is_default, is_premium
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	colorsJSON, err := json.Marshal(t.DefaultColors)
	if err != nil {
		return fmt.Errorf("failed to marshal default colors: %w", err)
	}
	featuresJSON, err := json.Marshal(t.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		t.Name, t.Slug, t.Description, t.TargetTenantType, t.DemoURL,
		colorsJSON, featuresJSON, t.IsActive, t.IsDefault, t.IsPremium,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if isUniqueViolation(err) {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id int64) (*template.Template, error) {
	query := fmt.Sprintf(`SELECT %s FROM templates WHERE id = $1`, templateColumns)
	return scanTemplate(r.db.QueryRow(ctx, query, id))
}

// List returns templates, optionally only active ones and only those targeting
// the given tenant type (universal templates always match).
func (r *TemplateRepository) List(ctx context.Context, activeOnly bool, tenantType string) ([]*template.Template, error) {
	query := fmt.Sprintf(`SELECT %s FROM templates WHERE 1=1`, templateColumns)
	var args []interface{}

	if activeOnly {
		query += " AND is_active"
	}
	if tenantType != "" {
		args = append(args, tenantType)
		query += fmt.Sprintf(" AND target_tenant_type IN ($%d, 'universal')", len(args))
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*template.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Update(ctx context.Context, t *template.Template) error {
	query := `
		UPDATE templates
		SET name = $1, description = $2, target_tenant_type = $3, demo_url = $4,
		    default_colors = $5, features = $6, is_default = $7, is_premium = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	colorsJSON, err := json.Marshal(t.DefaultColors)
	if err != nil {
		return fmt.Errorf("failed to marshal default colors: %w", err)
	}
	featuresJSON, err := json.Marshal(t.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		t.Name, t.Description, t.TargetTenantType, t.DemoURL,
		colorsJSON, featuresJSON, t.IsDefault, t.IsPremium, t.ID,
	).Scan(&t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

// SetActive toggles whether the template can be picked by tenants.
func (r *TemplateRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `
		UPDATE templates
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to toggle template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
