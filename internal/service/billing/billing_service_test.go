package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/billing"
	"egovpapua-service/internal/domain/plan"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"
	"egovpapua-service/internal/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---------- fakes ----------

type fakeTenantRepo struct {
	tenants map[int64]*tenant.Tenant
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id int64) (*tenant.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return t, nil
}

type fakePlanRepo struct {
	plans map[int64]*plan.Plan
}

func (f *fakePlanRepo) FindByID(_ context.Context, id int64) (*plan.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return p, nil
}

type fakeSubRepo struct {
	created []*billing.Subscription
	nextID  int64
}

func (f *fakeSubRepo) Create(_ context.Context, s *billing.Subscription) error {
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	f.created = append(f.created, s)
	return nil
}

type fakeInvoiceRepo struct {
	invoices       map[int64]*billing.Invoice
	nextID         int64
	failDuplicates int
	triedNumbers   []string
	paid           map[int64]time.Time
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[int64]*billing.Invoice),
		paid:     make(map[int64]time.Time),
	}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *billing.Invoice) error {
	f.triedNumbers = append(f.triedNumbers, inv.InvoiceNumber)
	if f.failDuplicates > 0 {
		f.failDuplicates--
		return xerrors.ErrDuplicateInvoiceNumber
	}
	inv.Recalculate()
	f.nextID++
	inv.ID = f.nextID
	inv.CreatedAt = time.Now()
	f.invoices[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) FindByID(_ context.Context, id int64) (*billing.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) List(_ context.Context, _ *access.Filter) ([]*billing.Invoice, error) {
	var out []*billing.Invoice
	for _, inv := range f.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) MarkPaid(_ context.Context, id int64, paidAt time.Time) error {
	inv, ok := f.invoices[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	inv.Status = billing.InvoicePaid
	f.paid[id] = paidAt
	return nil
}

type appliedNotification struct {
	paymentID int64
	status    billing.PaymentStatus
	md        billing.MidtransData
	metadata  json.RawMessage
}

type fakePaymentRepo struct {
	payments map[int64]*billing.Payment
	nextID   int64
	applied  []appliedNotification
	gateway  map[int64]billing.MidtransData
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[int64]*billing.Payment),
		gateway:  make(map[int64]billing.MidtransData),
	}
}

func (f *fakePaymentRepo) Create(_ context.Context, p *billing.Payment) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(_ context.Context, orderID string) (*billing.Payment, error) {
	for _, p := range f.payments {
		if p.Midtrans.OrderID == orderID {
			return p, nil
		}
	}
	return nil, xerrors.ErrPaymentNotFound
}

func (f *fakePaymentRepo) SetGatewayData(_ context.Context, id int64, md billing.MidtransData) error {
	p, ok := f.payments[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	p.Midtrans = md
	f.gateway[id] = md
	return nil
}

func (f *fakePaymentRepo) ApplyNotification(_ context.Context, id int64, status billing.PaymentStatus, md billing.MidtransData, metadata json.RawMessage, processedAt time.Time) error {
	p, ok := f.payments[id]
	if !ok {
		return xerrors.ErrPaymentNotFound
	}
	f.applied = append(f.applied, appliedNotification{
		paymentID: id,
		status:    status,
		md:        md,
		metadata:  metadata,
	})
	p.Status = status
	p.Midtrans = md
	p.Metadata = metadata
	return nil
}

type fakePropagator struct {
	calls []*billing.Subscription
}

func (f *fakePropagator) Propagate(_ context.Context, sub *billing.Subscription) error {
	f.calls = append(f.calls, sub)
	return nil
}

type fakeSnap struct {
	params  *gateway.SnapParams
	session *gateway.SnapSession
	err     error
}

func (f *fakeSnap) CreateTransaction(_ context.Context, params gateway.SnapParams) (*gateway.SnapSession, error) {
	f.params = &params
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type billingFixture struct {
	svc        *BillingService
	tenants    *fakeTenantRepo
	plans      *fakePlanRepo
	subs       *fakeSubRepo
	invoices   *fakeInvoiceRepo
	payments   *fakePaymentRepo
	propagator *fakePropagator
	snap       *fakeSnap
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		tenants: &fakeTenantRepo{tenants: map[int64]*tenant.Tenant{
			1: {ID: 1, Name: "Diskominfo Jayapura", Slug: "diskominfo-jayapura",
				Type: tenant.TypeOPD, ContactEmail: "info@jayapura.go.id", ContactPhone: "0967123456"},
			2: {ID: 2, Name: "Kabupaten Merauke", Slug: "kabupaten-merauke", Type: tenant.TypeKabupaten},
		}},
		plans: &fakePlanRepo{plans: map[int64]*plan.Plan{
			10: {ID: 10, Name: "Premium", Slug: "premium", Price: 150000,
				Interval: plan.IntervalMonthly, IsActive: true},
			11: {ID: 11, Name: "Enterprise", Slug: "enterprise", Price: 1500000,
				Interval: plan.IntervalYearly, IsActive: true},
			12: {ID: 12, Name: "Legacy", Slug: "legacy", Price: 50000,
				Interval: plan.IntervalMonthly, IsActive: false},
		}},
		subs:       &fakeSubRepo{},
		invoices:   newFakeInvoiceRepo(),
		payments:   newFakePaymentRepo(),
		propagator: &fakePropagator{},
		snap: &fakeSnap{session: &gateway.SnapSession{
			Token:       "snap-token-abc",
			RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-abc",
		}},
	}
	f.svc = NewBillingService(
		f.tenants, f.plans, f.subs, f.invoices, f.payments,
		f.propagator, f.snap, zap.NewNop(),
	)
	return f
}

var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{6}-\d{4}$`)

// ---------- IssueInvoice ----------

func TestIssueInvoiceMonthly(t *testing.T) {
	f := newBillingFixture()
	before := time.Now()

	resp, err := f.svc.IssueInvoice(context.Background(), 1, 10)
	require.NoError(t, err)

	sub := resp.Subscription
	assert.Equal(t, billing.SubscriptionPending, sub.Status)
	assert.Equal(t, int64(1), sub.TenantID)
	assert.Equal(t, int64(10), sub.PlanID)
	assert.WithinDuration(t, before.AddDate(0, 1, 0), sub.EndDate, 5*time.Second)

	inv := resp.Invoice
	assert.Equal(t, billing.InvoicePending, inv.Status)
	assert.Regexp(t, invoiceNumberPattern, inv.InvoiceNumber)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), inv.DueDate, 5*time.Second)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Premium - Bulanan", inv.Items[0].Description)
	assert.Equal(t, int64(150000), inv.Items[0].UnitPrice)
	assert.Equal(t, int64(150000), inv.Subtotal)
	assert.Equal(t, int64(150000), inv.Amount)
	assert.Equal(t, sub.ID, inv.SubscriptionID.Int64)

	// Creating a pending subscription already drives the tenant status.
	require.Len(t, f.propagator.calls, 1)
	assert.Equal(t, sub.ID, f.propagator.calls[0].ID)
}

func TestIssueInvoiceYearly(t *testing.T) {
	f := newBillingFixture()
	before := time.Now()

	resp, err := f.svc.IssueInvoice(context.Background(), 1, 11)
	require.NoError(t, err)

	assert.WithinDuration(t, before.AddDate(1, 0, 0), resp.Subscription.EndDate, 5*time.Second)
	assert.Equal(t, "Enterprise - Tahunan", resp.Invoice.Items[0].Description)
	assert.Equal(t, int64(1500000), resp.Invoice.Amount)
}

func TestIssueInvoiceInactivePlan(t *testing.T) {
	f := newBillingFixture()

	_, err := f.svc.IssueInvoice(context.Background(), 1, 12)
	assert.ErrorIs(t, err, xerrors.ErrPlanInactive)
	assert.Empty(t, f.subs.created)
	assert.Empty(t, f.invoices.invoices)
}

func TestIssueInvoiceUnknownTenant(t *testing.T) {
	f := newBillingFixture()

	_, err := f.svc.IssueInvoice(context.Background(), 99, 10)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestIssueInvoiceNumberCollisionRetries(t *testing.T) {
	f := newBillingFixture()
	f.invoices.failDuplicates = 2

	resp, err := f.svc.IssueInvoice(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, f.invoices.triedNumbers, 3)
	assert.Regexp(t, invoiceNumberPattern, resp.Invoice.InvoiceNumber)
}

func TestIssueInvoiceNumberCollisionExhausted(t *testing.T) {
	f := newBillingFixture()
	f.invoices.failDuplicates = 3

	_, err := f.svc.IssueInvoice(context.Background(), 1, 10)
	assert.ErrorIs(t, err, xerrors.ErrDuplicateInvoiceNumber)
	assert.Len(t, f.invoices.triedNumbers, 3)
}

// ---------- PayInvoice ----------

func seedInvoice(f *billingFixture, status billing.InvoiceStatus) *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber: "INV-202508-1234",
		TenantID:      1,
		Items: []billing.InvoiceItem{
			{Description: "Premium - Bulanan", Quantity: 1, UnitPrice: 150000},
		},
		Status:  status,
		DueDate: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := f.invoices.Create(context.Background(), inv); err != nil {
		panic(err)
	}
	inv.Status = status
	return inv
}

func TestPayInvoiceGatewayMethod(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePending)

	resp, err := f.svc.PayInvoice(context.Background(), inv.ID, billing.MethodMidtransQRIS)
	require.NoError(t, err)

	assert.Equal(t, billing.PaymentPending, resp.Payment.Status)
	assert.Equal(t, int64(150000), resp.Payment.Amount)
	assert.Equal(t, "snap-token-abc", resp.SnapToken)
	assert.NotEmpty(t, resp.SnapURL)

	require.NotNil(t, f.snap.params)
	assert.Equal(t, int64(150000), f.snap.params.Amount)
	assert.Equal(t, "Diskominfo Jayapura", f.snap.params.CustomerName)
	assert.Equal(t, "info@jayapura.go.id", f.snap.params.CustomerEmail)

	expectedPrefix := fmt.Sprintf("ORDER-%d-", resp.Payment.ID)
	assert.Contains(t, f.snap.params.OrderID, expectedPrefix)

	stored := f.payments.gateway[resp.Payment.ID]
	assert.Equal(t, f.snap.params.OrderID, stored.OrderID)
	assert.Equal(t, "snap-token-abc", stored.SnapToken)
}

func TestPayInvoiceCustomerFallbacks(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePending)
	inv.TenantID = 2 // tenant without contact details

	_, err := f.svc.PayInvoice(context.Background(), inv.ID, billing.MethodMidtransBankTransfer)
	require.NoError(t, err)

	assert.Equal(t, "noreply@egovpapua.com", f.snap.params.CustomerEmail)
	assert.Equal(t, "081234567890", f.snap.params.CustomerPhone)
}

func TestPayInvoiceManualTransfer(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePending)

	resp, err := f.svc.PayInvoice(context.Background(), inv.ID, billing.MethodManualTransfer)
	require.NoError(t, err)

	assert.Nil(t, f.snap.params)
	assert.Empty(t, resp.SnapToken)
	assert.Equal(t, billing.PaymentPending, resp.Payment.Status)
}

func TestPayInvoiceAlreadyPaid(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePaid)

	_, err := f.svc.PayInvoice(context.Background(), inv.ID, billing.MethodMidtransCC)
	assert.ErrorIs(t, err, xerrors.ErrInvoiceAlreadyPaid)
	assert.Empty(t, f.payments.payments)
}

func TestPayInvoiceInvalidMethod(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePending)

	_, err := f.svc.PayInvoice(context.Background(), inv.ID, "paypal")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestPayInvoiceGatewayFailure(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePending)
	f.snap.err = fmt.Errorf("midtrans unreachable")

	_, err := f.svc.PayInvoice(context.Background(), inv.ID, billing.MethodMidtransEwallet)
	assert.ErrorIs(t, err, xerrors.ErrGateway)
}

// ---------- access checks ----------

func TestGetInvoiceForbiddenForOtherTenant(t *testing.T) {
	f := newBillingFixture()
	inv := seedInvoice(f, billing.InvoicePending)

	subject := access.Subject{IdentityID: 5, Role: access.RoleTenantAdmin, TenantID: 2}
	_, err := f.svc.GetInvoice(context.Background(), subject, inv.ID)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	subject.TenantID = 1
	got, err := f.svc.GetInvoice(context.Background(), subject, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
}
