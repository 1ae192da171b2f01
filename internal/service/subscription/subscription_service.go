package subscription

import (
	"context"
	"fmt"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/billing"
	"egovpapua-service/internal/domain/tenant"
	xerrors "egovpapua-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type SubscriptionRepo interface {
	FindByID(ctx context.Context, id int64) (*billing.Subscription, error)
	List(ctx context.Context, filter *access.Filter) ([]*billing.Subscription, error)
	UpdateStatus(ctx context.Context, id int64, status billing.SubscriptionStatus, reason string) (*billing.Subscription, error)
}

type TenantRepo interface {
	UpdateSubscriptionStatus(ctx context.Context, tenantID int64, status tenant.SubscriptionStatus) error
	SetActiveSubscription(ctx context.Context, tenantID, subscriptionID int64) error
}

type SubscriptionService struct {
	subRepo    SubscriptionRepo
	tenantRepo TenantRepo
	logger     *zap.Logger
}

func NewSubscriptionService(subRepo SubscriptionRepo, tenantRepo TenantRepo, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		subRepo:    subRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// DeriveTenantStatus maps a subscription status to the tenant-level status
// the public site keys off. Anything outside the three terminal-ish states
// lands the tenant back on trial.
func DeriveTenantStatus(status billing.SubscriptionStatus) tenant.SubscriptionStatus {
	switch status {
	case billing.SubscriptionActive:
		return tenant.SubscriptionActive
	case billing.SubscriptionSuspended:
		return tenant.SubscriptionSuspended
	case billing.SubscriptionCancelled, billing.SubscriptionExpired:
		return tenant.SubscriptionCancelled
	default:
		return tenant.SubscriptionTrial
	}
}

// Propagate writes the derived status onto the owning tenant. The write is
// unconditional, so a tenant row edited out of band converges on the next
// subscription change.
func (s *SubscriptionService) Propagate(ctx context.Context, sub *billing.Subscription) error {
	derived := DeriveTenantStatus(sub.Status)
	if err := s.tenantRepo.UpdateSubscriptionStatus(ctx, sub.TenantID, derived); err != nil {
		return fmt.Errorf("propagate status to tenant %d: %w", sub.TenantID, err)
	}
	s.logger.Info("tenant subscription status propagated",
		zap.Int64("tenant_id", sub.TenantID),
		zap.Int64("subscription_id", sub.ID),
		zap.String("subscription_status", string(sub.Status)),
		zap.String("tenant_status", string(derived)),
	)
	return nil
}

// Transition moves a subscription into the given status and propagates the
// result. Activation also pins the subscription as the tenant's current one.
func (s *SubscriptionService) Transition(ctx context.Context, id int64, status billing.SubscriptionStatus, reason string) (*billing.Subscription, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown subscription status %q", xerrors.ErrInvalidInput, status)
	}

	sub, err := s.subRepo.UpdateStatus(ctx, id, status, reason)
	if err != nil {
		return nil, err
	}

	if status == billing.SubscriptionActive {
		if err := s.tenantRepo.SetActiveSubscription(ctx, sub.TenantID, sub.ID); err != nil {
			return nil, err
		}
	}
	if err := s.Propagate(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) Get(ctx context.Context, subject access.Subject, id int64) (*billing.Subscription, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessTenant(subject, sub.TenantID) {
		return nil, xerrors.ErrForbidden
	}
	return sub, nil
}

func (s *SubscriptionService) List(ctx context.Context, subject access.Subject) ([]*billing.Subscription, error) {
	decision := access.Authorize(subject, access.ActionRead)
	if !decision.Allowed {
		return nil, xerrors.ErrForbidden
	}
	return s.subRepo.List(ctx, decision.Filter)
}
