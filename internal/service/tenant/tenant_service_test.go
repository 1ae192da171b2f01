package tenant

import (
	"context"
	"testing"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTenantRepo struct {
	tenants map[int64]*tenant.Tenant
	nextID  int64
	filters []*access.Filter
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[int64]*tenant.Tenant)}
}

func (f *fakeTenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	for _, existing := range f.tenants {
		if existing.Slug == t.Slug {
			return xerrors.ErrConflict
		}
	}
	f.nextID++
	t.ID = f.nextID
	t.Status = tenant.SubscriptionTrial
	f.tenants[t.ID] = t
	return nil
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id int64) (*tenant.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return t, nil
}

func (f *fakeTenantRepo) FindBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeTenantRepo) List(_ context.Context, filter *access.Filter) ([]*tenant.Tenant, error) {
	f.filters = append(f.filters, filter)
	var out []*tenant.Tenant
	for _, t := range f.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTenantRepo) Update(_ context.Context, t *tenant.Tenant) error {
	if _, ok := f.tenants[t.ID]; !ok {
		return xerrors.ErrNotFound
	}
	f.tenants[t.ID] = t
	return nil
}

func TestCreateTenantGeneratesSlug(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), tenant.CreateTenantRequest{
		Name: "Diskominfo Jayapura",
		Type: "opd",
	})
	require.NoError(t, err)

	assert.Equal(t, "diskominfo-jayapura", created.Slug)
	assert.Equal(t, tenant.TypeOPD, created.Type)
	assert.Equal(t, tenant.SubscriptionTrial, created.Status)
}

func TestCreateTenantInvalidType(t *testing.T) {
	svc := NewTenantService(newFakeTenantRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), tenant.CreateTenantRequest{
		Name: "Somewhere",
		Type: "kecamatan",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCreateTenantDuplicateSlug(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), tenant.CreateTenantRequest{Name: "Merauke", Type: "kabupaten"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), tenant.CreateTenantRequest{Name: "Merauke", Type: "kabupaten"})
	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestListRemapsFilterToID(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, zap.NewNop())

	_, err := svc.List(context.Background(), access.Subject{
		IdentityID: 2, Role: access.RoleTenantAdmin, TenantID: 5,
	})
	require.NoError(t, err)

	require.Len(t, repo.filters, 1)
	require.NotNil(t, repo.filters[0])
	assert.Equal(t, "id", repo.filters[0].Column)
	assert.Equal(t, int64(5), repo.filters[0].Value)
}

func TestListSuperAdminUnfiltered(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, zap.NewNop())

	_, err := svc.List(context.Background(), access.Subject{IdentityID: 1, Role: access.RoleSuperAdmin})
	require.NoError(t, err)

	require.Len(t, repo.filters, 1)
	assert.Nil(t, repo.filters[0])
}

func TestUpdateForbiddenAcrossTenants(t *testing.T) {
	repo := newFakeTenantRepo()
	svc := NewTenantService(repo, zap.NewNop())

	created, err := svc.Create(context.Background(), tenant.CreateTenantRequest{Name: "Merauke", Type: "kabupaten"})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.Update(context.Background(),
		access.Subject{IdentityID: 2, Role: access.RoleTenantAdmin, TenantID: created.ID + 1},
		created.ID, tenant.UpdateTenantRequest{Name: &name})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}
