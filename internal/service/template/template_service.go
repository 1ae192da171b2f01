package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/template"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type TemplateRepo interface {
	Create(ctx context.Context, t *template.Template) error
	FindByID(ctx context.Context, id int64) (*template.Template, error)
	List(ctx context.Context, activeOnly bool, tenantType string) ([]*template.Template, error)
	Update(ctx context.Context, t *template.Template) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type ThemeRepo interface {
	Save(ctx context.Context, ts *template.ThemeSettings) error
	FindByTenant(ctx context.Context, tenantID int64) (*template.ThemeSettings, error)
}

type TenantRepo interface {
	FindByID(ctx context.Context, id int64) (*tenant.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
}

type TemplateService struct {
	templates  TemplateRepo
	themes     ThemeRepo
	tenantRepo TenantRepo
	logger     *zap.Logger
}

func NewTemplateService(templates TemplateRepo, themes ThemeRepo, tenantRepo TenantRepo, logger *zap.Logger) *TemplateService {
	return &TemplateService{templates: templates, themes: themes, tenantRepo: tenantRepo, logger: logger}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, req template.CreateTemplateRequest) (*template.Template, error) {
	if !template.ValidTarget(req.TargetTenantType) {
		return nil, fmt.Errorf("%w: unknown target tenant type %q", xerrors.ErrInvalidInput, req.TargetTenantType)
	}

	slug := req.Slug
	if slug == "" {
		slug = tenant.Slugify(req.Name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: template name produces an empty slug", xerrors.ErrInvalidInput)
	}

	t := &template.Template{
		Name:             req.Name,
		Slug:             slug,
		Description:      req.Description,
		TargetTenantType: req.TargetTenantType,
		DemoURL:          req.DemoURL,
		Features:         req.Features,
		IsActive:         true,
		IsDefault:        req.IsDefault,
		IsPremium:        req.IsPremium,
	}
	if req.DefaultColors != nil {
		t.DefaultColors = *req.DefaultColors
	}

	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("template created", zap.Int64("template_id", t.ID), zap.String("slug", t.Slug))
	return t, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id int64) (*template.Template, error) {
	return s.templates.FindByID(ctx, id)
}

// ListTemplates returns the catalog. Only super admins may see inactive
// templates; everyone else gets the active set, optionally narrowed to a
// tenant type (universal templates always included).
func (s *TemplateService) ListTemplates(ctx context.Context, subject access.Subject, includeInactive bool, tenantType string) ([]*template.Template, error) {
	if tenantType != "" && !template.ValidTarget(tenantType) {
		return nil, fmt.Errorf("%w: unknown target tenant type %q", xerrors.ErrInvalidInput, tenantType)
	}
	if subject.Role != access.RoleSuperAdmin {
		includeInactive = false
	}
	return s.templates.List(ctx, !includeInactive, tenantType)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id int64, req template.UpdateTemplateRequest) (*template.Template, error) {
	t, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.TargetTenantType != nil {
		if !template.ValidTarget(*req.TargetTenantType) {
			return nil, fmt.Errorf("%w: unknown target tenant type %q", xerrors.ErrInvalidInput, *req.TargetTenantType)
		}
		t.TargetTenantType = *req.TargetTenantType
	}
	if req.DemoURL != nil {
		t.DemoURL = *req.DemoURL
	}
	if req.DefaultColors != nil {
		t.DefaultColors = *req.DefaultColors
	}
	if req.Features != nil {
		t.Features = *req.Features
	}
	if req.IsDefault != nil {
		t.IsDefault = *req.IsDefault
	}
	if req.IsPremium != nil {
		t.IsPremium = *req.IsPremium
	}

	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) SetTemplateActive(ctx context.Context, id int64, active bool) error {
	return s.templates.SetActive(ctx, id, active)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id int64) error {
	return s.templates.Delete(ctx, id)
}

// SaveTheme upserts the theme settings of a tenant. Tenant users are pinned
// to their own tenant; super admins must target one explicitly.
func (s *TemplateService) SaveTheme(ctx context.Context, subject access.Subject, tenantID int64, req template.SaveThemeRequest) (*template.ThemeSettings, error) {
	if subject.TenantID != 0 {
		tenantID = subject.TenantID
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("%w: tenant is required", xerrors.ErrInvalidInput)
	}

	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ts, err := s.themes.FindByTenant(ctx, tenantID)
	if errors.Is(err, xerrors.ErrNotFound) {
		ts = &template.ThemeSettings{TenantID: tenantID}
	} else if err != nil {
		return nil, err
	}

	if req.TemplateID != nil {
		tpl, err := s.templates.FindByID(ctx, *req.TemplateID)
		if err != nil {
			return nil, err
		}
		if !tpl.IsActive {
			return nil, fmt.Errorf("%w: template %q is not active", xerrors.ErrInvalidInput, tpl.Slug)
		}
		if tpl.TargetTenantType != template.TargetUniversal && tpl.TargetTenantType != string(t.Type) {
			return nil, fmt.Errorf("%w: template %q does not target tenant type %q", xerrors.ErrInvalidInput, tpl.Slug, t.Type)
		}
		ts.TemplateID = sql.NullInt64{Int64: tpl.ID, Valid: true}
	}
	if req.Colors != nil {
		ts.Colors = *req.Colors
	}
	if req.LogoURL != nil {
		ts.LogoURL = *req.LogoURL
	}
	if req.CustomCSS != nil {
		ts.CustomCSS = *req.CustomCSS
	}
	if req.MetaTitle != nil {
		ts.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		ts.MetaDescription = *req.MetaDescription
	}

	if err := s.themes.Save(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *TemplateService) GetTheme(ctx context.Context, subject access.Subject, tenantID int64) (*template.ThemeSettings, error) {
	if subject.TenantID != 0 {
		tenantID = subject.TenantID
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("%w: tenant is required", xerrors.ErrInvalidInput)
	}
	if !access.CanAccessTenant(subject, tenantID) {
		return nil, xerrors.ErrForbidden
	}
	return s.themes.FindByTenant(ctx, tenantID)
}

// PublicTheme resolves a tenant slug and returns its theme settings together
// with the selected template, for public site rendering.
func (s *TemplateService) PublicTheme(ctx context.Context, tenantSlug string) (*template.ThemeView, error) {
	t, err := s.tenantRepo.FindBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}

	ts, err := s.themes.FindByTenant(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	view := &template.ThemeView{Theme: ts}
	if ts.TemplateID.Valid {
		tpl, err := s.templates.FindByID(ctx, ts.TemplateID.Int64)
		if err == nil {
			view.Template = tpl
		} else if !errors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}
	}
	return view, nil
}
