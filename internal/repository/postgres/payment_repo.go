package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"egovpapua-service/internal/domain/billing"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, invoice_id, amount, method, status, midtrans_data,
	metadata, processed_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*billing.Payment, error) {
	var p billing.Payment
	var midtransJSON []byte

	err := row.Scan(
		&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Status, &midtransJSON,
		&p.Metadata, &p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	if len(midtransJSON) > 0 {
		if err := json.Unmarshal(midtransJSON, &p.Midtrans); err != nil {
			return nil, fmt.Errorf("failed to unmarshal midtrans data: %w", err)
		}
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *billing.Payment) error {
	query := `
		INSERT INTO payments (invoice_id, amount, method, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.InvoiceID, p.Amount, p.Method, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*billing.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE id = $1`, paymentColumns)
	return scanPayment(r.db.QueryRow(ctx, query, id))
}

// FindByOrderID looks a payment up by its stored gateway order id.
func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*billing.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE midtrans_data->>'order_id' = $1`, paymentColumns)
	p, err := scanPayment(r.db.QueryRow(ctx, query, orderID))
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrPaymentNotFound
	}
	return p, err
}

// SetGatewayData stores the order id and checkout session on a freshly
// initiated payment.
func (r *PaymentRepository) SetGatewayData(ctx context.Context, id int64, md billing.MidtransData) error {
	mdJSON, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to marshal midtrans data: %w", err)
	}

	query := `
		UPDATE payments
		SET midtrans_data = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, mdJSON, id)
	if err != nil {
		return fmt.Errorf("failed to set gateway data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ApplyNotification overwrites the payment's status, gateway fields, raw
// notification payload and processing timestamp.
func (r *PaymentRepository) ApplyNotification(ctx context.Context, id int64, status billing.PaymentStatus, md billing.MidtransData, metadata json.RawMessage, processedAt time.Time) error {
	mdJSON, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("failed to marshal midtrans data: %w", err)
	}

	query := `
		UPDATE payments
		SET status = $1, midtrans_data = $2, metadata = $3, processed_at = $4,
		    updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, status, mdJSON, metadata, processedAt, id)
	if err != nil {
		return fmt.Errorf("failed to apply notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrPaymentNotFound
	}
	return nil
}

// SumSuccessfulByMonth aggregates successful payment amounts per month for
// revenue reporting.
func (r *PaymentRepository) SumSuccessfulByMonth(ctx context.Context) (map[string]int64, int64, int64, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM'), COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments
		WHERE status = 'success'
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer rows.Close()

	byMonth := make(map[string]int64)
	var total, count int64
	for rows.Next() {
		var month string
		var sum, n int64
		if err := rows.Scan(&month, &sum, &n); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		byMonth[month] = sum
		total += sum
		count += n
	}
	return byMonth, total, count, rows.Err()
}
