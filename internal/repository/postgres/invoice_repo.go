package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/billing"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	db *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, invoice_number, tenant_id, subscription_id, items,
	subtotal, tax, amount, status, due_date, paid_at, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*billing.Invoice, error) {
	var inv billing.Invoice
	var itemsJSON []byte

	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.TenantID, &inv.SubscriptionID, &itemsJSON,
		&inv.Subtotal, &inv.Tax, &inv.Amount, &inv.Status, &inv.DueDate,
		&inv.PaidAt, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &inv.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoice items: %w", err)
		}
	}
	return &inv, nil
}

// Create inserts an invoice. Totals are recomputed from the line items before
// the write; a colliding invoice number maps to ErrDuplicateInvoiceNumber so
// the issuer can retry with a fresh one.
func (r *InvoiceRepository) Create(ctx context.Context, inv *billing.Invoice) error {
	inv.Recalculate()

	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice items: %w", err)
	}

	query := `
		INSERT INTO invoices (
			invoice_number, tenant_id, subscription_id, items,
			subtotal, tax, amount, status, due_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRow(
		ctx, query,
		inv.InvoiceNumber, inv.TenantID, inv.SubscriptionID, itemsJSON,
		inv.Subtotal, inv.Tax, inv.Amount, inv.Status, inv.DueDate, inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)

	if isUniqueViolation(err) {
		return xerrors.ErrDuplicateInvoiceNumber
	}
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*billing.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns)
	return scanInvoice(r.db.QueryRow(ctx, query, id))
}

func (r *InvoiceRepository) List(ctx context.Context, filter *access.Filter) ([]*billing.Invoice, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoices`, invoiceColumns)
	var args []interface{}
	if filter != nil {
		clause, arg := filter.Clause(1)
		query += " WHERE " + clause
		args = append(args, arg)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*billing.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkPaid sets the invoice to paid with the given timestamp. Part of the
// payment-success cascade.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	query := `
		UPDATE invoices
		SET status = 'paid', paid_at = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, paidAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
