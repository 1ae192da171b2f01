package content

import (
	"context"
	"database/sql"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/content"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type ContentRepo interface {
	Create(ctx context.Context, e *content.Entry) error
	FindByID(ctx context.Context, id int64) (*content.Entry, error)
	List(ctx context.Context, filter *access.Filter, filters *content.ListFilters) ([]*content.Entry, error)
	ListPublishedByTenant(ctx context.Context, tenantID int64, kind string) ([]*content.Entry, error)
	Update(ctx context.Context, e *content.Entry) error
	Delete(ctx context.Context, id int64) error
}

type TenantRepo interface {
	FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
}

type ContentService struct {
	repo       ContentRepo
	tenantRepo TenantRepo
	logger     *zap.Logger
}

func NewContentService(repo ContentRepo, tenantRepo TenantRepo, logger *zap.Logger) *ContentService {
	return &ContentService{repo: repo, tenantRepo: tenantRepo, logger: logger}
}

// canPublish gates the published flag: editors draft and edit, admins publish.
func canPublish(sub access.Subject) bool {
	return sub.Role == access.RoleSuperAdmin || sub.Role == access.RoleTenantAdmin
}

// Create writes an entry into the subject's tenant. Super admins must target
// a tenant explicitly via tenantID.
func (s *ContentService) Create(ctx context.Context, subject access.Subject, tenantID int64, req content.CreateEntryRequest) (*content.Entry, error) {
	decision := access.Authorize(subject, access.ActionCreate)
	if !decision.Allowed {
		return nil, xerrors.ErrForbidden
	}
	if subject.TenantID != 0 {
		tenantID = subject.TenantID
	}
	if tenantID == 0 {
		return nil, fmt.Errorf("%w: tenant is required", xerrors.ErrInvalidInput)
	}

	kind := content.Kind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown content kind %q", xerrors.ErrInvalidInput, req.Kind)
	}
	if req.Published && !canPublish(subject) {
		return nil, fmt.Errorf("%w: publishing requires an admin role", xerrors.ErrForbidden)
	}

	slug := req.Slug
	if slug == "" {
		slug = tenant.Slugify(req.Title)
	}

	e := &content.Entry{
		TenantID:  tenantID,
		Kind:      kind,
		Title:     req.Title,
		Slug:      slug,
		Body:      req.Body,
		FileURL:   req.FileURL,
		Published: req.Published,
	}
	if req.EventDate != nil {
		e.EventDate = sql.NullTime{Time: *req.EventDate, Valid: true}
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ContentService) Get(ctx context.Context, subject access.Subject, id int64) (*content.Entry, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessTenant(subject, e.TenantID) {
		if e.Published {
			return e, nil
		}
		return nil, xerrors.ErrForbidden
	}
	return e, nil
}

func (s *ContentService) List(ctx context.Context, subject access.Subject, filters *content.ListFilters) ([]*content.Entry, error) {
	decision := access.Authorize(subject, access.ActionRead)
	if !decision.Allowed {
		return nil, xerrors.ErrForbidden
	}
	return s.repo.List(ctx, decision.Filter, filters)
}

// ListPublic resolves a tenant slug and returns its published entries.
func (s *ContentService) ListPublic(ctx context.Context, tenantSlug, kind string) ([]*content.Entry, error) {
	if kind != "" && !content.Kind(kind).Valid() {
		return nil, fmt.Errorf("%w: unknown content kind %q", xerrors.ErrInvalidInput, kind)
	}

	t, err := s.tenantRepo.FindBySlug(ctx, tenantSlug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListPublishedByTenant(ctx, t.ID, kind)
}

func (s *ContentService) Update(ctx context.Context, subject access.Subject, id int64, req content.UpdateEntryRequest) (*content.Entry, error) {
	decision := access.Authorize(subject, access.ActionUpdate)
	if !decision.Allowed {
		return nil, xerrors.ErrForbidden
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessTenant(subject, e.TenantID) {
		return nil, xerrors.ErrForbidden
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Body != nil {
		e.Body = *req.Body
	}
	if req.FileURL != nil {
		e.FileURL = *req.FileURL
	}
	if req.EventDate != nil {
		e.EventDate = sql.NullTime{Time: *req.EventDate, Valid: true}
	}
	if req.Published != nil {
		if !canPublish(subject) {
			return nil, fmt.Errorf("%w: publishing requires an admin role", xerrors.ErrForbidden)
		}
		e.Published = *req.Published
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *ContentService) Delete(ctx context.Context, subject access.Subject, id int64) error {
	decision := access.Authorize(subject, access.ActionDelete)
	if !decision.Allowed {
		return xerrors.ErrForbidden
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanAccessTenant(subject, e.TenantID) {
		return xerrors.ErrForbidden
	}
	return s.repo.Delete(ctx, e.ID)
}
