package billing

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"
)

// ---------- Subscription ----------

type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionSuspended SubscriptionStatus = "suspended"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionPending, SubscriptionActive, SubscriptionCancelled,
		SubscriptionExpired, SubscriptionSuspended:
		return true
	}
	return false
}

type Subscription struct {
	ID                 int64              `json:"id" db:"id"`
	TenantID           int64              `json:"tenant_id" db:"tenant_id"`
	PlanID             int64              `json:"plan_id" db:"plan_id"`
	Status             SubscriptionStatus `json:"status" db:"status"`
	StartDate          time.Time          `json:"start_date" db:"start_date"`
	EndDate            time.Time          `json:"end_date" db:"end_date"`
	AutoRenew          bool               `json:"auto_renew" db:"auto_renew"`
	CancelledAt        sql.NullTime       `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancellationReason sql.NullString     `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// ---------- Invoice ----------

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type InvoiceItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Amount      int64  `json:"amount"`
}

type Invoice struct {
	ID             int64         `json:"id" db:"id"`
	InvoiceNumber  string        `json:"invoice_number" db:"invoice_number"`
	TenantID       int64         `json:"tenant_id" db:"tenant_id"`
	SubscriptionID sql.NullInt64 `json:"subscription_id,omitempty" db:"subscription_id"`
	Items          []InvoiceItem `json:"items" db:"items"`
	Subtotal       int64         `json:"subtotal" db:"subtotal"`
	Tax            int64         `json:"tax" db:"tax"`
	Amount         int64         `json:"amount" db:"amount"`
	Status         InvoiceStatus `json:"status" db:"status"`
	DueDate        time.Time     `json:"due_date" db:"due_date"`
	PaidAt         sql.NullTime  `json:"paid_at,omitempty" db:"paid_at"`
	Notes          string        `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// Recalculate derives item amounts, subtotal and total from the line items
// and tax. Caller-supplied amounts are never trusted; this runs on every
// invoice write.
func (i *Invoice) Recalculate() {
	var subtotal int64
	for idx := range i.Items {
		item := &i.Items[idx]
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		item.Amount = item.Quantity * item.UnitPrice
		subtotal += item.Amount
	}
	i.Subtotal = subtotal
	if i.Tax < 0 {
		i.Tax = 0
	}
	i.Amount = i.Subtotal + i.Tax
}

// ---------- Payment ----------

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentRefunded   PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	MethodMidtransCC           PaymentMethod = "midtrans_cc"
	MethodMidtransBankTransfer PaymentMethod = "midtrans_bank_transfer"
	MethodMidtransEwallet      PaymentMethod = "midtrans_ewallet"
	MethodMidtransQRIS         PaymentMethod = "midtrans_qris"
	MethodManualTransfer       PaymentMethod = "manual_transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodMidtransCC, MethodMidtransBankTransfer, MethodMidtransEwallet,
		MethodMidtransQRIS, MethodManualTransfer:
		return true
	}
	return false
}

// IsGateway reports whether the method is settled through Midtrans.
func (m PaymentMethod) IsGateway() bool {
	return strings.HasPrefix(string(m), "midtrans")
}

// MidtransData holds the gateway-specific fields of a payment.
type MidtransData struct {
	OrderID           string `json:"order_id,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	TransactionStatus string `json:"transaction_status,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	SnapToken         string `json:"snap_token,omitempty"`
	SnapURL           string `json:"snap_url,omitempty"`
	VANumber          string `json:"va_number,omitempty"`
	Bank              string `json:"bank,omitempty"`
}

type Payment struct {
	ID          int64           `json:"id" db:"id"`
	InvoiceID   int64           `json:"invoice_id" db:"invoice_id"`
	Amount      int64           `json:"amount" db:"amount"`
	Method      PaymentMethod   `json:"method" db:"method"`
	Status      PaymentStatus   `json:"status" db:"status"`
	Midtrans    MidtransData    `json:"midtrans_data" db:"midtrans_data"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	ProcessedAt sql.NullTime    `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}
