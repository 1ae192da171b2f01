package plan

import (
	"context"
	"fmt"

	"egovpapua-service/internal/domain/plan"
	xerrors "egovpapua-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type PlanRepo interface {
	Create(ctx context.Context, p *plan.Plan) error
	FindByID(ctx context.Context, id int64) (*plan.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*plan.Plan, error)
	Update(ctx context.Context, p *plan.Plan) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type PlanService struct {
	repo   PlanRepo
	logger *zap.Logger
}

func NewPlanService(repo PlanRepo, logger *zap.Logger) *PlanService {
	return &PlanService{repo: repo, logger: logger}
}

func (s *PlanService) Create(ctx context.Context, req plan.CreatePlanRequest) (*plan.Plan, error) {
	interval := plan.Interval(req.Interval)
	if !interval.Valid() {
		return nil, fmt.Errorf("%w: unknown billing interval %q", xerrors.ErrInvalidInput, req.Interval)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", xerrors.ErrInvalidInput)
	}

	p := &plan.Plan{
		Name:             req.Name,
		Slug:             req.Slug,
		Description:      req.Description,
		Price:            req.Price,
		Interval:         interval,
		TargetTenantType: req.TargetTenantType,
		Features:         req.Features,
		Limits:           req.Limits,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("plan created", zap.Int64("plan_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

func (s *PlanService) Get(ctx context.Context, id int64) (*plan.Plan, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns plans. Unauthenticated callers only ever see active ones.
func (s *PlanService) List(ctx context.Context, includeInactive bool) ([]*plan.Plan, error) {
	return s.repo.List(ctx, !includeInactive)
}

func (s *PlanService) Update(ctx context.Context, id int64, req plan.UpdatePlanRequest) (*plan.Plan, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", xerrors.ErrInvalidInput)
		}
		p.Price = *req.Price
	}
	if req.TargetTenantType != nil {
		p.TargetTenantType = *req.TargetTenantType
	}
	if req.Features != nil {
		p.Features = req.Features
	}
	if req.Limits != nil {
		p.Limits = *req.Limits
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetActive toggles whether new subscriptions may be issued against the plan.
// Existing subscriptions are untouched.
func (s *PlanService) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *PlanService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
