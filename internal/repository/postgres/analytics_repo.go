package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"egovpapua-service/internal/domain/analytics"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// Insert appends one event. Events are never updated or deleted.
func (r *AnalyticsRepository) Insert(ctx context.Context, e *analytics.Event) error {
	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO analytics_events (tenant_id, event, metadata, session_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(
		ctx, query,
		e.TenantID, e.Event, metadataJSON, e.SessionID,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// CountByEvent returns per-event counts for a tenant since the given time.
// A zero since counts all time.
func (r *AnalyticsRepository) CountByEvent(ctx context.Context, tenantID int64, since time.Time) (map[string]int64, error) {
	query := `
		SELECT event, COUNT(*)
		FROM analytics_events
		WHERE tenant_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		GROUP BY event
	`

	var sinceArg interface{}
	if !since.IsZero() {
		sinceArg = since
	}

	rows, err := r.db.Query(ctx, query, tenantID, sinceArg)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var event string
		var n int64
		if err := rows.Scan(&event, &n); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[event] = n
	}
	return counts, rows.Err()
}

// PopularContent returns the most-viewed resources for a tenant.
func (r *AnalyticsRepository) PopularContent(ctx context.Context, tenantID int64, limit int) ([]analytics.PopularContent, error) {
	query := `
		SELECT metadata->>'resource_id', event, COUNT(*) AS views
		FROM analytics_events
		WHERE tenant_id = $1 AND metadata->>'resource_id' IS NOT NULL
		GROUP BY 1, 2
		ORDER BY views DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular content: %w", err)
	}
	defer rows.Close()

	var popular []analytics.PopularContent
	for rows.Next() {
		var p analytics.PopularContent
		if err := rows.Scan(&p.ResourceID, &p.Type, &p.Views); err != nil {
			return nil, fmt.Errorf("failed to scan popular content: %w", err)
		}
		popular = append(popular, p)
	}
	return popular, rows.Err()
}
