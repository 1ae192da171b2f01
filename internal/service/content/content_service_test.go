package content

import (
	"context"
	"testing"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/content"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeContentRepo struct {
	entries map[int64]*content.Entry
	nextID  int64
	deleted []int64
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{entries: make(map[int64]*content.Entry)}
}

func (f *fakeContentRepo) Create(_ context.Context, e *content.Entry) error {
	f.nextID++
	e.ID = f.nextID
	f.entries[e.ID] = e
	return nil
}

func (f *fakeContentRepo) FindByID(_ context.Context, id int64) (*content.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return e, nil
}

func (f *fakeContentRepo) List(_ context.Context, _ *access.Filter, _ *content.ListFilters) ([]*content.Entry, error) {
	var out []*content.Entry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeContentRepo) ListPublishedByTenant(_ context.Context, tenantID int64, kind string) ([]*content.Entry, error) {
	var out []*content.Entry
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.Published && (kind == "" || string(e.Kind) == kind) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeContentRepo) Update(_ context.Context, e *content.Entry) error {
	if _, ok := f.entries[e.ID]; !ok {
		return xerrors.ErrNotFound
	}
	f.entries[e.ID] = e
	return nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.entries[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.entries, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTenantResolver struct {
	bySlug map[string]*tenant.Tenant
}

func (f *fakeTenantResolver) FindBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	t, ok := f.bySlug[slug]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return t, nil
}

func newContentService(repo *fakeContentRepo) *ContentService {
	resolver := &fakeTenantResolver{bySlug: map[string]*tenant.Tenant{
		"diskominfo-jayapura": {ID: 1, Slug: "diskominfo-jayapura"},
	}}
	return NewContentService(repo, resolver, zap.NewNop())
}

var (
	editorT1 = access.Subject{IdentityID: 2, Role: access.RoleTenantEditor, TenantID: 1}
	adminT1  = access.Subject{IdentityID: 3, Role: access.RoleTenantAdmin, TenantID: 1}
	adminT2  = access.Subject{IdentityID: 4, Role: access.RoleTenantAdmin, TenantID: 2}
	super    = access.Subject{IdentityID: 1, Role: access.RoleSuperAdmin}
)

func TestCreatePinsTenantAndSlugifies(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	e, err := svc.Create(context.Background(), editorT1, 999, content.CreateEntryRequest{
		Kind:  "news",
		Title: "Pembukaan Layanan Baru",
	})
	require.NoError(t, err)

	// The caller-supplied tenant id is ignored for tenant users.
	assert.Equal(t, int64(1), e.TenantID)
	assert.Equal(t, "pembukaan-layanan-baru", e.Slug)
	assert.Equal(t, content.KindNews, e.Kind)
}

func TestCreateSuperAdminNeedsExplicitTenant(t *testing.T) {
	svc := newContentService(newFakeContentRepo())

	_, err := svc.Create(context.Background(), super, 0, content.CreateEntryRequest{
		Kind:  "news",
		Title: "Untargeted",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	svc := newContentService(newFakeContentRepo())

	_, err := svc.Create(context.Background(), adminT1, 0, content.CreateEntryRequest{
		Kind:  "gallery",
		Title: "Foto",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestUpdateCrossTenantForbidden(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	e, err := svc.Create(context.Background(), adminT1, 0, content.CreateEntryRequest{
		Kind:  "document",
		Title: "Laporan",
	})
	require.NoError(t, err)

	title := "Edited"
	_, err = svc.Update(context.Background(), adminT2, e.ID, content.UpdateEntryRequest{Title: &title})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	got, err := svc.Update(context.Background(), adminT1, e.ID, content.UpdateEntryRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
}

func TestEditorUpdatesWithinOwnTenant(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	e, err := svc.Create(context.Background(), editorT1, 0, content.CreateEntryRequest{
		Kind:  "news",
		Title: "Draf Berita",
	})
	require.NoError(t, err)

	title := "Draf Berita Revisi"
	got, err := svc.Update(context.Background(), editorT1, e.ID, content.UpdateEntryRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
}

func TestPublishReservedForAdmins(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	published := true
	_, err := svc.Create(context.Background(), editorT1, 0, content.CreateEntryRequest{
		Kind: "news", Title: "Langsung Tayang", Published: true,
	})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	e, err := svc.Create(context.Background(), editorT1, 0, content.CreateEntryRequest{
		Kind: "news", Title: "Draf",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), editorT1, e.ID, content.UpdateEntryRequest{Published: &published})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	got, err := svc.Update(context.Background(), adminT1, e.ID, content.UpdateEntryRequest{Published: &published})
	require.NoError(t, err)
	assert.True(t, got.Published)
}

func TestDeleteSuperAdminOnly(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	e, err := svc.Create(context.Background(), adminT1, 0, content.CreateEntryRequest{
		Kind:  "news",
		Title: "Berita",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), adminT1, e.ID), xerrors.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), super, e.ID))
	assert.Equal(t, []int64{e.ID}, repo.deleted)
}

func TestListPublicOnlyPublished(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	_, err := svc.Create(context.Background(), adminT1, 0, content.CreateEntryRequest{
		Kind: "news", Title: "Draft", Published: false,
	})
	require.NoError(t, err)
	published, err := svc.Create(context.Background(), adminT1, 0, content.CreateEntryRequest{
		Kind: "news", Title: "Live", Published: true,
	})
	require.NoError(t, err)

	entries, err := svc.ListPublic(context.Background(), "diskominfo-jayapura", "news")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, published.ID, entries[0].ID)

	_, err = svc.ListPublic(context.Background(), "unknown-tenant", "")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	_, err = svc.ListPublic(context.Background(), "diskominfo-jayapura", "gallery")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestGetUnpublishedHiddenFromOutsiders(t *testing.T) {
	repo := newFakeContentRepo()
	svc := newContentService(repo)

	e, err := svc.Create(context.Background(), adminT1, 0, content.CreateEntryRequest{
		Kind: "news", Title: "Draft", Published: false,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), adminT2, e.ID)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	got, err := svc.Get(context.Background(), adminT1, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}
