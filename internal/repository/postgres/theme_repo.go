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

type ThemeRepository struct {
	db *pgxpool.Pool
}

func NewThemeRepository(db *pgxpool.Pool) *ThemeRepository {
	return &ThemeRepository{db: db}
}

const themeColumns = `id, tenant_id, template_id, colors, logo_url, custom_css,
	meta_title, meta_description, created_at, updated_at`

func scanTheme(row pgx.Row) (*template.ThemeSettings, error) {
	var ts template.ThemeSettings
	var colorsJSON []byte

	err := row.Scan(
		&ts.ID, &ts.TenantID, &ts.TemplateID, &colorsJSON, &ts.LogoURL,
		&ts.CustomCSS, &ts.MetaTitle, &ts.MetaDescription,
		&ts.CreatedAt, &ts.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan theme settings: %w", err)
	}

	if len(colorsJSON) > 0 {
		if err := json.Unmarshal(colorsJSON, &ts.Colors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal colors: %w", err)
		}
	}
	return &ts, nil
}

// Save upserts the tenant's single theme settings row. The unique constraint
// on tenant_id makes a repeated save overwrite the existing row.
func (r *ThemeRepository) Save(ctx context.Context, ts *template.ThemeSettings) error {
	query := `
		INSERT INTO theme_settings (
			tenant_id, template_id, colors, logo_url, custom_css,
			meta_title, meta_description
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id) DO UPDATE
		SET template_id = EXCLUDED.template_id,
		    colors = EXCLUDED.colors,
		    logo_url = EXCLUDED.logo_url,
		    custom_css = EXCLUDED.custom_css,
		    meta_title = EXCLUDED.meta_title,
		    meta_description = EXCLUDED.meta_description,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	colorsJSON, err := json.Marshal(ts.Colors)
	if err != nil {
		return fmt.Errorf("failed to marshal colors: %w", err)
	}

	err = r.db.QueryRow(
		ctx, query,
		ts.TenantID, ts.TemplateID, colorsJSON, ts.LogoURL, ts.CustomCSS,
		ts.MetaTitle, ts.MetaDescription,
	).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save theme settings: %w", err)
	}
	return nil
}

func (r *ThemeRepository) FindByTenant(ctx context.Context, tenantID int64) (*template.ThemeSettings, error) {
	query := fmt.Sprintf(`SELECT %s FROM theme_settings WHERE tenant_id = $1`, themeColumns)
	return scanTheme(r.db.QueryRow(ctx, query, tenantID))
}
