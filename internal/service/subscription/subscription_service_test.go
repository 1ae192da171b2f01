package subscription

import (
	"context"
	"testing"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/billing"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubRepo struct {
	subs map[int64]*billing.Subscription
}

func (f *fakeSubRepo) FindByID(_ context.Context, id int64) (*billing.Subscription, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubRepo) List(_ context.Context, filter *access.Filter) ([]*billing.Subscription, error) {
	var out []*billing.Subscription
	for _, s := range f.subs {
		if filter != nil && filter.Column == "tenant_id" && s.TenantID != filter.Value.(int64) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubRepo) UpdateStatus(_ context.Context, id int64, status billing.SubscriptionStatus, reason string) (*billing.Subscription, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	s.Status = status
	if status == billing.SubscriptionCancelled && reason != "" {
		s.CancellationReason.String = reason
		s.CancellationReason.Valid = true
	}
	return s, nil
}

type fakeTenantRepo struct {
	statuses map[int64][]tenant.SubscriptionStatus
	active   map[int64]int64
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		statuses: make(map[int64][]tenant.SubscriptionStatus),
		active:   make(map[int64]int64),
	}
}

func (f *fakeTenantRepo) UpdateSubscriptionStatus(_ context.Context, tenantID int64, status tenant.SubscriptionStatus) error {
	f.statuses[tenantID] = append(f.statuses[tenantID], status)
	return nil
}

func (f *fakeTenantRepo) SetActiveSubscription(_ context.Context, tenantID, subscriptionID int64) error {
	f.active[tenantID] = subscriptionID
	return nil
}

func TestDeriveTenantStatus(t *testing.T) {
	tests := []struct {
		in   billing.SubscriptionStatus
		want tenant.SubscriptionStatus
	}{
		{billing.SubscriptionActive, tenant.SubscriptionActive},
		{billing.SubscriptionSuspended, tenant.SubscriptionSuspended},
		{billing.SubscriptionCancelled, tenant.SubscriptionCancelled},
		{billing.SubscriptionExpired, tenant.SubscriptionCancelled},
		{billing.SubscriptionPending, tenant.SubscriptionTrial},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveTenantStatus(tt.in), "input %s", tt.in)
	}
}

func TestPropagateAlwaysWrites(t *testing.T) {
	tenants := newFakeTenantRepo()
	svc := NewSubscriptionService(&fakeSubRepo{}, tenants, zap.NewNop())

	sub := &billing.Subscription{ID: 1, TenantID: 7, Status: billing.SubscriptionActive}
	require.NoError(t, svc.Propagate(context.Background(), sub))
	require.NoError(t, svc.Propagate(context.Background(), sub))

	// The write is issued even when the derived value is unchanged.
	assert.Equal(t, []tenant.SubscriptionStatus{
		tenant.SubscriptionActive, tenant.SubscriptionActive,
	}, tenants.statuses[7])
}

func TestTransitionActivate(t *testing.T) {
	subs := &fakeSubRepo{subs: map[int64]*billing.Subscription{
		1: {ID: 1, TenantID: 7, Status: billing.SubscriptionPending},
	}}
	tenants := newFakeTenantRepo()
	svc := NewSubscriptionService(subs, tenants, zap.NewNop())

	sub, err := svc.Transition(context.Background(), 1, billing.SubscriptionActive, "")
	require.NoError(t, err)

	assert.Equal(t, billing.SubscriptionActive, sub.Status)
	assert.Equal(t, int64(1), tenants.active[7])
	assert.Equal(t, []tenant.SubscriptionStatus{tenant.SubscriptionActive}, tenants.statuses[7])
}

func TestTransitionCancelWithReason(t *testing.T) {
	subs := &fakeSubRepo{subs: map[int64]*billing.Subscription{
		1: {ID: 1, TenantID: 7, Status: billing.SubscriptionActive},
	}}
	tenants := newFakeTenantRepo()
	svc := NewSubscriptionService(subs, tenants, zap.NewNop())

	sub, err := svc.Transition(context.Background(), 1, billing.SubscriptionCancelled, "non-payment")
	require.NoError(t, err)

	assert.Equal(t, "non-payment", sub.CancellationReason.String)
	assert.Equal(t, []tenant.SubscriptionStatus{tenant.SubscriptionCancelled}, tenants.statuses[7])
	// No activation happened, so the pointer is untouched.
	assert.Empty(t, tenants.active)
}

func TestTransitionInvalidStatus(t *testing.T) {
	svc := NewSubscriptionService(&fakeSubRepo{}, newFakeTenantRepo(), zap.NewNop())

	_, err := svc.Transition(context.Background(), 1, "paused", "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestGetScopedToTenant(t *testing.T) {
	subs := &fakeSubRepo{subs: map[int64]*billing.Subscription{
		1: {ID: 1, TenantID: 7, Status: billing.SubscriptionActive},
	}}
	svc := NewSubscriptionService(subs, newFakeTenantRepo(), zap.NewNop())

	_, err := svc.Get(context.Background(), access.Subject{IdentityID: 2, Role: access.RoleTenantAdmin, TenantID: 8}, 1)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	got, err := svc.Get(context.Background(), access.Subject{IdentityID: 2, Role: access.RoleTenantAdmin, TenantID: 7}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}
