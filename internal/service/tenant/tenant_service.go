package tenant

import (
	"context"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type TenantRepo interface {
	Create(ctx context.Context, t *tenant.Tenant) error
	FindByID(ctx context.Context, id int64) (*tenant.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
	List(ctx context.Context, filter *access.Filter) ([]*tenant.Tenant, error)
	Update(ctx context.Context, t *tenant.Tenant) error
}

type TenantService struct {
	repo   TenantRepo
	logger *zap.Logger
}

func NewTenantService(repo TenantRepo, logger *zap.Logger) *TenantService {
	return &TenantService{repo: repo, logger: logger}
}

func (s *TenantService) Create(ctx context.Context, req tenant.CreateTenantRequest) (*tenant.Tenant, error) {
	typ := tenant.Type(req.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown tenant type %q", xerrors.ErrInvalidInput, req.Type)
	}

	slug := req.Slug
	if slug == "" {
		slug = tenant.Slugify(req.Name)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: name produces an empty slug", xerrors.ErrInvalidInput)
	}

	t := &tenant.Tenant{
		Name:           req.Name,
		Slug:           slug,
		Type:           typ,
		ContactAddress: req.ContactAddress,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		ContactWebsite: req.ContactWebsite,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		zap.Int64("tenant_id", t.ID),
		zap.String("slug", t.Slug),
		zap.String("type", string(t.Type)),
	)
	return t, nil
}

func (s *TenantService) Get(ctx context.Context, subject access.Subject, id int64) (*tenant.Tenant, error) {
	if !access.CanAccessTenant(subject, id) {
		return nil, xerrors.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

// GetBySlug serves the public site resolver and needs no subject.
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *TenantService) List(ctx context.Context, subject access.Subject) ([]*tenant.Tenant, error) {
	decision := access.Authorize(subject, access.ActionRead)
	if !decision.Allowed {
		return nil, xerrors.ErrForbidden
	}
	filter := decision.Filter
	if filter != nil {
		if filter.Column != "tenant_id" {
			return nil, xerrors.ErrForbidden
		}
		// Tenant rows are keyed by id, not tenant_id.
		filter = &access.Filter{Column: "id", Value: filter.Value}
	}
	return s.repo.List(ctx, filter)
}

func (s *TenantService) Update(ctx context.Context, subject access.Subject, id int64, req tenant.UpdateTenantRequest) (*tenant.Tenant, error) {
	if !access.CanAccessTenant(subject, id) {
		return nil, xerrors.ErrForbidden
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.ContactAddress != nil {
		t.ContactAddress = *req.ContactAddress
	}
	if req.ContactPhone != nil {
		t.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		t.ContactEmail = *req.ContactEmail
	}
	if req.ContactWebsite != nil {
		t.ContactWebsite = *req.ContactWebsite
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
