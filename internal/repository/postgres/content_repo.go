package postgres

import (
	"context"
	"errors"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/content"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id, tenant_id, kind, title, slug, body, file_url,
	event_date, published, created_at, updated_at`

func scanEntry(row pgx.Row) (*content.Entry, error) {
	var e content.Entry
	err := row.Scan(
		&e.ID, &e.TenantID, &e.Kind, &e.Title, &e.Slug, &e.Body, &e.FileURL,
		&e.EventDate, &e.Published, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content entry: %w", err)
	}
	return &e, nil
}

func (r *ContentRepository) Create(ctx context.Context, e *content.Entry) error {
	query := `
		INSERT INTO content_entries (
			tenant_id, kind, title, slug, body, file_url, event_date, published
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		e.TenantID, e.Kind, e.Title, e.Slug, e.Body, e.FileURL, e.EventDate, e.Published,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if isUniqueViolation(err) {
		return xerrors.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create content entry: %w", err)
	}
	return nil
}

func (r *ContentRepository) FindByID(ctx context.Context, id int64) (*content.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_entries WHERE id = $1`, contentColumns)
	return scanEntry(r.db.QueryRow(ctx, query, id))
}

// List returns entries restricted by the access filter and optional kind.
func (r *ContentRepository) List(ctx context.Context, filter *access.Filter, filters *content.ListFilters) ([]*content.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_entries WHERE 1=1`, contentColumns)
	var args []interface{}

	if filter != nil {
		clause, arg := filter.Clause(len(args) + 1)
		query += " AND " + clause
		args = append(args, arg)
	}
	if filters != nil {
		if filters.Kind != "" {
			args = append(args, filters.Kind)
			query += fmt.Sprintf(" AND kind = $%d", len(args))
		}
		if filters.Published != nil {
			args = append(args, *filters.Published)
			query += fmt.Sprintf(" AND published = $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"
	limit, offset := 50, 0
	if filters != nil {
		if filters.Limit > 0 && filters.Limit <= 100 {
			limit = filters.Limit
		}
		if filters.Offset > 0 {
			offset = filters.Offset
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list content entries: %w", err)
	}
	defer rows.Close()

	var entries []*content.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListPublishedByTenant serves the public site for one tenant.
func (r *ContentRepository) ListPublishedByTenant(ctx context.Context, tenantID int64, kind string) ([]*content.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_entries WHERE tenant_id = $1 AND published`, contentColumns)
	args := []interface{}{tenantID}
	if kind != "" {
		args = append(args, kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list published entries: %w", err)
	}
	defer rows.Close()

	var entries []*content.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *ContentRepository) Update(ctx context.Context, e *content.Entry) error {
	query := `
		UPDATE content_entries
		SET title = $1, body = $2, file_url = $3, event_date = $4, published = $5,
		    updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		e.Title, e.Body, e.FileURL, e.EventDate, e.Published, e.ID,
	).Scan(&e.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update content entry: %w", err)
	}
	return nil
}

func (r *ContentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
