package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/billing"
	"egovpapua-service/internal/domain/plan"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"
	"egovpapua-service/internal/pkg/gateway"

	"go.uber.org/zap"
)

const (
	invoiceDueDays = 7
	// Invoice numbers carry a random 4-digit suffix; regeneration bounds the
	// retry on a unique-constraint collision.
	invoiceNumberAttempts = 3

	fallbackEmail = "noreply@egovpapua.com"
	fallbackPhone = "081234567890"
)

type TenantRepo interface {
	FindByID(ctx context.Context, id int64) (*tenant.Tenant, error)
}

type PlanRepo interface {
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type SubscriptionRepo interface {
	Create(ctx context.Context, s *billing.Subscription) error
}

type InvoiceRepo interface {
	Create(ctx context.Context, inv *billing.Invoice) error
	FindByID(ctx context.Context, id int64) (*billing.Invoice, error)
	List(ctx context.Context, filter *access.Filter) ([]*billing.Invoice, error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) error
}

type PaymentRepo interface {
	Create(ctx context.Context, p *billing.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*billing.Payment, error)
	SetGatewayData(ctx context.Context, id int64, md billing.MidtransData) error
	ApplyNotification(ctx context.Context, id int64, status billing.PaymentStatus, md billing.MidtransData, metadata json.RawMessage, processedAt time.Time) error
}

// Propagator pushes subscription state down to the owning tenant.
type Propagator interface {
	Propagate(ctx context.Context, sub *billing.Subscription) error
}

type BillingService struct {
	tenantRepo  TenantRepo
	planRepo    PlanRepo
	subRepo     SubscriptionRepo
	invoiceRepo InvoiceRepo
	paymentRepo PaymentRepo
	propagator  Propagator
	snap        gateway.SnapGateway
	logger      *zap.Logger
}

func NewBillingService(
	tenantRepo TenantRepo,
	planRepo PlanRepo,
	subRepo SubscriptionRepo,
	invoiceRepo InvoiceRepo,
	paymentRepo PaymentRepo,
	propagator Propagator,
	snap gateway.SnapGateway,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		tenantRepo:  tenantRepo,
		planRepo:    planRepo,
		subRepo:     subRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		propagator:  propagator,
		snap:        snap,
		logger:      logger,
	}
}

// IssueInvoice creates a pending subscription for the plan's billing period
// and a pending invoice with one line item at the plan price.
func (s *BillingService) IssueInvoice(ctx context.Context, tenantID, planID int64) (*billing.CreateInvoiceResponse, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant lookup: %w", err)
	}

	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("plan lookup: %w", err)
	}
	if !p.IsActive {
		return nil, xerrors.ErrPlanInactive
	}

	now := time.Now()
	endDate := now.AddDate(0, 1, 0)
	if p.Interval == plan.IntervalYearly {
		endDate = now.AddDate(1, 0, 0)
	}

	sub := &billing.Subscription{
		TenantID:  t.ID,
		PlanID:    p.ID,
		Status:    billing.SubscriptionPending,
		StartDate: now,
		EndDate:   endDate,
		AutoRenew: false,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.propagator.Propagate(ctx, sub); err != nil {
		return nil, err
	}

	inv := &billing.Invoice{
		TenantID: t.ID,
		Items: []billing.InvoiceItem{
			{
				Description: fmt.Sprintf("%s - %s", p.Name, p.Interval.Label()),
				Quantity:    1,
				UnitPrice:   p.Price,
			},
		},
		Tax:     0,
		Status:  billing.InvoicePending,
		DueDate: now.Add(invoiceDueDays * 24 * time.Hour),
	}
	inv.SubscriptionID.Int64 = sub.ID
	inv.SubscriptionID.Valid = true

	for attempt := 0; ; attempt++ {
		inv.InvoiceNumber = generateInvoiceNumber(now)
		err = s.invoiceRepo.Create(ctx, inv)
		if err == nil {
			break
		}
		if !xerrors.Is(err, xerrors.ErrDuplicateInvoiceNumber) || attempt+1 >= invoiceNumberAttempts {
			return nil, err
		}
		s.logger.Warn("invoice number collision, regenerating",
			zap.String("invoice_number", inv.InvoiceNumber))
	}

	return &billing.CreateInvoiceResponse{Invoice: inv, Subscription: sub}, nil
}

// PayInvoice creates a pending payment for the invoice's current amount and,
// for gateway-backed methods, opens a Snap checkout session. Repeated calls
// create additional payments; callers dedupe at a higher layer.
func (s *BillingService) PayInvoice(ctx context.Context, invoiceID int64, method billing.PaymentMethod) (*billing.PayInvoiceResponse, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", xerrors.ErrInvalidInput, method)
	}

	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice lookup: %w", err)
	}
	if inv.Status == billing.InvoicePaid {
		return nil, xerrors.ErrInvoiceAlreadyPaid
	}

	payment := &billing.Payment{
		InvoiceID: inv.ID,
		Amount:    inv.Amount,
		Method:    method,
		Status:    billing.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if !method.IsGateway() {
		// Manual transfer stays pending until an admin confirms it.
		return &billing.PayInvoiceResponse{Payment: payment}, nil
	}

	t, err := s.tenantRepo.FindByID(ctx, inv.TenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant lookup: %w", err)
	}

	email := t.ContactEmail
	if email == "" {
		email = fallbackEmail
	}
	phone := t.ContactPhone
	if phone == "" {
		phone = fallbackPhone
	}

	items := make([]gateway.SnapItem, 0, len(inv.Items))
	for i, it := range inv.Items {
		items = append(items, gateway.SnapItem{
			ID:       fmt.Sprintf("item-%d", i+1),
			Name:     it.Description,
			Price:    it.UnitPrice,
			Quantity: int32(it.Quantity),
		})
	}

	orderID := fmt.Sprintf("ORDER-%d-%d", payment.ID, time.Now().UnixMilli())
	session, err := s.snap.CreateTransaction(ctx, gateway.SnapParams{
		OrderID:       orderID,
		Amount:        inv.Amount,
		CustomerName:  t.Name,
		CustomerEmail: email,
		CustomerPhone: phone,
		Items:         items,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrGateway, err)
	}

	payment.Midtrans = billing.MidtransData{
		OrderID:   orderID,
		SnapToken: session.Token,
		SnapURL:   session.RedirectURL,
	}
	if err := s.paymentRepo.SetGatewayData(ctx, payment.ID, payment.Midtrans); err != nil {
		return nil, err
	}

	return &billing.PayInvoiceResponse{
		Payment:   payment,
		SnapToken: session.Token,
		SnapURL:   session.RedirectURL,
	}, nil
}

// GetInvoice returns one invoice if the subject may read it.
func (s *BillingService) GetInvoice(ctx context.Context, sub access.Subject, id int64) (*billing.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessTenant(sub, inv.TenantID) {
		return nil, xerrors.ErrForbidden
	}
	return inv, nil
}

// ListInvoices returns invoices visible to the subject.
func (s *BillingService) ListInvoices(ctx context.Context, sub access.Subject) ([]*billing.Invoice, error) {
	decision := access.Authorize(sub, access.ActionRead)
	if !decision.Allowed || (decision.Filter != nil && decision.Filter.Column != "tenant_id") {
		return nil, xerrors.ErrForbidden
	}
	return s.invoiceRepo.List(ctx, decision.Filter)
}

func generateInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", now.Format("200601"), rand.IntN(10000))
}
