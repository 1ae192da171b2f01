package template

import (
	"context"
	"testing"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/template"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTemplateRepo struct {
	templates map[int64]*template.Template
	nextID    int64
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[int64]*template.Template)}
}

func (f *fakeTemplateRepo) Create(_ context.Context, t *template.Template) error {
	for _, existing := range f.templates {
		if existing.Slug == t.Slug {
			return xerrors.ErrConflict
		}
	}
	f.nextID++
	t.ID = f.nextID
	f.templates[t.ID] = t
	return nil
}

func (f *fakeTemplateRepo) FindByID(_ context.Context, id int64) (*template.Template, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return t, nil
}

func (f *fakeTemplateRepo) List(_ context.Context, activeOnly bool, tenantType string) ([]*template.Template, error) {
	var out []*template.Template
	for _, t := range f.templates {
		if activeOnly && !t.IsActive {
			continue
		}
		if tenantType != "" && t.TargetTenantType != tenantType && t.TargetTenantType != template.TargetUniversal {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, t *template.Template) error {
	if _, ok := f.templates[t.ID]; !ok {
		return xerrors.ErrNotFound
	}
	f.templates[t.ID] = t
	return nil
}

func (f *fakeTemplateRepo) SetActive(_ context.Context, id int64, active bool) error {
	t, ok := f.templates[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	t.IsActive = active
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.templates[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

type fakeThemeRepo struct {
	byTenant map[int64]*template.ThemeSettings
	nextID   int64
}

func newFakeThemeRepo() *fakeThemeRepo {
	return &fakeThemeRepo{byTenant: make(map[int64]*template.ThemeSettings)}
}

func (f *fakeThemeRepo) Save(_ context.Context, ts *template.ThemeSettings) error {
	if existing, ok := f.byTenant[ts.TenantID]; ok {
		ts.ID = existing.ID
	} else {
		f.nextID++
		ts.ID = f.nextID
	}
	f.byTenant[ts.TenantID] = ts
	return nil
}

func (f *fakeThemeRepo) FindByTenant(_ context.Context, tenantID int64) (*template.ThemeSettings, error) {
	ts, ok := f.byTenant[tenantID]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return ts, nil
}

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

func (f *fakeTenantRepo) FindBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

type templateFixture struct {
	svc       *TemplateService
	templates *fakeTemplateRepo
	themes    *fakeThemeRepo
}

func newTemplateFixture() *templateFixture {
	templates := newFakeTemplateRepo()
	themes := newFakeThemeRepo()
	tenants := &fakeTenantRepo{tenants: map[int64]*tenant.Tenant{
		1: {ID: 1, Name: "Diskominfo Jayapura", Slug: "diskominfo-jayapura", Type: tenant.TypeOPD},
		2: {ID: 2, Name: "Kabupaten Merauke", Slug: "kabupaten-merauke", Type: tenant.TypeKabupaten},
	}}
	return &templateFixture{
		svc:       NewTemplateService(templates, themes, tenants, zap.NewNop()),
		templates: templates,
		themes:    themes,
	}
}

var (
	superSub = access.Subject{IdentityID: 1, Role: access.RoleSuperAdmin}
	adminT1  = access.Subject{IdentityID: 2, Role: access.RoleTenantAdmin, TenantID: 1}
	adminT2  = access.Subject{IdentityID: 3, Role: access.RoleTenantAdmin, TenantID: 2}
)

func TestCreateTemplateGeneratesSlug(t *testing.T) {
	fx := newTemplateFixture()

	tpl, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name:             "Professional OPD",
		TargetTenantType: "opd",
	})
	require.NoError(t, err)
	assert.Equal(t, "professional-opd", tpl.Slug)
	assert.True(t, tpl.IsActive)
}

func TestCreateTemplateRejectsUnknownTarget(t *testing.T) {
	fx := newTemplateFixture()

	_, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name:             "Broken",
		TargetTenantType: "kecamatan",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestListTemplatesHidesInactiveFromTenants(t *testing.T) {
	fx := newTemplateFixture()

	live, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Modern Desa", TargetTenantType: "universal",
	})
	require.NoError(t, err)
	retired, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Legacy", TargetTenantType: "universal",
	})
	require.NoError(t, err)
	require.NoError(t, fx.svc.SetTemplateActive(context.Background(), retired.ID, false))

	got, err := fx.svc.ListTemplates(context.Background(), adminT1, true, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, live.ID, got[0].ID)

	all, err := fx.svc.ListTemplates(context.Background(), superSub, true, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListTemplatesIncludesUniversalForType(t *testing.T) {
	fx := newTemplateFixture()

	_, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Modern Desa", TargetTenantType: "desa",
	})
	require.NoError(t, err)
	_, err = fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Universal Base", TargetTenantType: "universal",
	})
	require.NoError(t, err)

	got, err := fx.svc.ListTemplates(context.Background(), adminT1, false, "opd")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "universal-base", got[0].Slug)
}

func TestSaveThemePinsTenant(t *testing.T) {
	fx := newTemplateFixture()

	logo := "https://cdn.egovpapua.com/logo.png"
	ts, err := fx.svc.SaveTheme(context.Background(), adminT1, 999, template.SaveThemeRequest{
		LogoURL: &logo,
	})
	require.NoError(t, err)

	// The caller-supplied tenant id is ignored for tenant users.
	assert.Equal(t, int64(1), ts.TenantID)
	assert.Equal(t, logo, ts.LogoURL)
}

func TestSaveThemeOverwritesExistingRow(t *testing.T) {
	fx := newTemplateFixture()

	primary := "#0066CC"
	first, err := fx.svc.SaveTheme(context.Background(), adminT1, 0, template.SaveThemeRequest{
		Colors: &template.Colors{Primary: primary},
	})
	require.NoError(t, err)

	secondary := "#FF6600"
	second, err := fx.svc.SaveTheme(context.Background(), adminT1, 0, template.SaveThemeRequest{
		Colors: &template.Colors{Primary: primary, Secondary: secondary},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, fx.themes.byTenant, 1)
	assert.Equal(t, secondary, fx.themes.byTenant[1].Colors.Secondary)
}

func TestSaveThemeSuperAdminNeedsExplicitTenant(t *testing.T) {
	fx := newTemplateFixture()

	_, err := fx.svc.SaveTheme(context.Background(), superSub, 0, template.SaveThemeRequest{})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestSaveThemeRejectsMismatchedTemplate(t *testing.T) {
	fx := newTemplateFixture()

	tpl, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Modern Desa", TargetTenantType: "desa",
	})
	require.NoError(t, err)

	// Tenant 1 is an OPD; a desa-only template must be refused.
	_, err = fx.svc.SaveTheme(context.Background(), adminT1, 0, template.SaveThemeRequest{
		TemplateID: &tpl.ID,
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestSaveThemeRejectsInactiveTemplate(t *testing.T) {
	fx := newTemplateFixture()

	tpl, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Legacy", TargetTenantType: "universal",
	})
	require.NoError(t, err)
	require.NoError(t, fx.svc.SetTemplateActive(context.Background(), tpl.ID, false))

	_, err = fx.svc.SaveTheme(context.Background(), adminT1, 0, template.SaveThemeRequest{
		TemplateID: &tpl.ID,
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestGetThemeScopedToTenant(t *testing.T) {
	fx := newTemplateFixture()

	_, err := fx.svc.SaveTheme(context.Background(), adminT1, 0, template.SaveThemeRequest{})
	require.NoError(t, err)

	got, err := fx.svc.GetTheme(context.Background(), adminT1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TenantID)

	// Cross-tenant reads through the authenticated endpoint stay pinned to
	// the caller's own tenant, which has no row yet.
	_, err = fx.svc.GetTheme(context.Background(), adminT2, 1)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestPublicThemeResolvesTemplate(t *testing.T) {
	fx := newTemplateFixture()

	tpl, err := fx.svc.CreateTemplate(context.Background(), template.CreateTemplateRequest{
		Name: "Professional OPD", TargetTenantType: "opd",
	})
	require.NoError(t, err)
	_, err = fx.svc.SaveTheme(context.Background(), adminT1, 0, template.SaveThemeRequest{
		TemplateID: &tpl.ID,
	})
	require.NoError(t, err)

	view, err := fx.svc.PublicTheme(context.Background(), "diskominfo-jayapura")
	require.NoError(t, err)
	require.NotNil(t, view.Template)
	assert.Equal(t, tpl.ID, view.Template.ID)
	assert.Equal(t, int64(1), view.Theme.TenantID)

	_, err = fx.svc.PublicTheme(context.Background(), "unknown-tenant")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	_, err = fx.svc.PublicTheme(context.Background(), "kabupaten-merauke")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
