package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"egovpapua-service/internal/domain/analytics"
	xerrors "egovpapua-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	statsCacheTTL       = 60 * time.Second
	popularContentLimit = 10
)

type AnalyticsRepo interface {
	Insert(ctx context.Context, e *analytics.Event) error
	CountByEvent(ctx context.Context, tenantID int64, since time.Time) (map[string]int64, error)
	PopularContent(ctx context.Context, tenantID int64, limit int) ([]analytics.PopularContent, error)
}

type PaymentRepo interface {
	SumSuccessfulByMonth(ctx context.Context) (map[string]int64, int64, int64, error)
}

type AnalyticsService struct {
	repo        AnalyticsRepo
	paymentRepo PaymentRepo
	cache       *redis.Client
	logger      *zap.Logger
}

// NewAnalyticsService wires the event store and revenue source. cache may be
// nil, in which case stats are computed on every call.
func NewAnalyticsService(repo AnalyticsRepo, paymentRepo PaymentRepo, cache *redis.Client, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:        repo,
		paymentRepo: paymentRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Track records one event. Tracking sits on the public request path, so a
// failed insert is logged and swallowed; the visitor never sees an error. The
// returned session id is minted when the caller did not send one.
func (s *AnalyticsService) Track(ctx context.Context, req analytics.TrackRequest, userAgent, ip string) (string, error) {
	eventType := analytics.EventType(req.Event)
	if !eventType.Valid() {
		return "", fmt.Errorf("%w: unknown event type %q", xerrors.ErrInvalidInput, req.Event)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = ulid.Make().String()
	}

	md := req.Metadata
	md.UserAgent = userAgent
	md.IP = ip

	e := &analytics.Event{
		Event:     eventType,
		Metadata:  md,
		SessionID: sessionID,
	}
	if req.Tenant != 0 {
		e.TenantID = sql.NullInt64{Int64: req.Tenant, Valid: true}
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		s.logger.Error("analytics insert failed",
			zap.String("event", req.Event),
			zap.Int64("tenant_id", req.Tenant),
			zap.Error(err),
		)
	}
	return sessionID, nil
}

// Stats returns the per-window event summary and popular content for one
// tenant, cached for a minute.
func (s *AnalyticsService) Stats(ctx context.Context, tenantID int64) (*analytics.StatsResponse, error) {
	cacheKey := fmt.Sprintf("analytics:stats:%d", tenantID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var stats analytics.StatsResponse
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)

	allTime, err := s.countPeriod(ctx, tenantID, time.Time{})
	if err != nil {
		return nil, err
	}
	thisMonth, err := s.countPeriod(ctx, tenantID, monthStart)
	if err != nil {
		return nil, err
	}
	thisWeek, err := s.countPeriod(ctx, tenantID, weekStart)
	if err != nil {
		return nil, err
	}

	popular, err := s.repo.PopularContent(ctx, tenantID, popularContentLimit)
	if err != nil {
		return nil, err
	}

	stats := &analytics.StatsResponse{
		Summary: analytics.Summary{
			AllTime:   allTime,
			ThisMonth: thisMonth,
			ThisWeek:  thisWeek,
		},
		PopularContent: popular,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *AnalyticsService) countPeriod(ctx context.Context, tenantID int64, since time.Time) (analytics.PeriodCounts, error) {
	byEvent, err := s.repo.CountByEvent(ctx, tenantID, since)
	if err != nil {
		return analytics.PeriodCounts{}, err
	}
	var total int64
	for _, n := range byEvent {
		total += n
	}
	return analytics.PeriodCounts{Total: total, ByEvent: byEvent}, nil
}

// Revenue aggregates successful payments platform-wide.
func (s *AnalyticsService) Revenue(ctx context.Context) (*analytics.RevenueSummary, error) {
	byMonth, total, count, err := s.paymentRepo.SumSuccessfulByMonth(ctx)
	if err != nil {
		return nil, err
	}

	var avg float64
	if count > 0 {
		avg = float64(total) / float64(count)
	}
	return &analytics.RevenueSummary{
		TotalRevenue:       total,
		TotalTransactions:  count,
		AverageTransaction: avg,
		ByMonth:            byMonth,
	}, nil
}
