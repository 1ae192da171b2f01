package app

import (
	"context"
	"log"
	"net/http"

	"egovpapua-service/internal/config"
	"egovpapua-service/internal/db"
	"egovpapua-service/internal/pkg/gateway"
	"egovpapua-service/internal/pkg/jwt"
	"egovpapua-service/internal/repository/postgres"
	analyticssvc "egovpapua-service/internal/service/analytics"
	authsvc "egovpapua-service/internal/service/auth"
	billingsvc "egovpapua-service/internal/service/billing"
	contentsvc "egovpapua-service/internal/service/content"
	plansvc "egovpapua-service/internal/service/plan"
	subsvc "egovpapua-service/internal/service/subscription"
	templatesvc "egovpapua-service/internal/service/template"
	tenantsvc "egovpapua-service/internal/service/tenant"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	http   *http.Server
	pool   *pgxpool.Pool
	redis  *redis.Client
	logger *zap.Logger
}

// NewServer loads configuration, connects the backing stores and wires the
// full handler graph. Connection failures are fatal; there is nothing useful
// to serve without the database.
func NewServer() *Server {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	pool, err := db.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	rdb, err := db.NewRedisClient(db.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		// Redis only backs the rate limiter and the stats cache; both degrade
		// gracefully without it.
		logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	tokens := jwt.NewManager(cfg.JWT)
	snapGateway := gateway.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransIsProduction)

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	contentRepo := postgres.NewContentRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)
	themeRepo := postgres.NewThemeRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	subscriptionService := subsvc.NewSubscriptionService(subRepo, tenantRepo, logger)
	billingService := billingsvc.NewBillingService(
		tenantRepo, planRepo, subRepo, invoiceRepo, paymentRepo,
		subscriptionService, snapGateway, logger,
	)
	webhookService := billingsvc.NewWebhookService(paymentRepo, invoiceRepo, cfg.MidtransServerKey, logger)
	tenantService := tenantsvc.NewTenantService(tenantRepo, logger)
	planService := plansvc.NewPlanService(planRepo, logger)
	contentService := contentsvc.NewContentService(contentRepo, tenantRepo, logger)
	templateService := templatesvc.NewTemplateService(templateRepo, themeRepo, tenantRepo, logger)
	analyticsService := analyticssvc.NewAnalyticsService(analyticsRepo, paymentRepo, rdb, logger)
	authService := authsvc.NewAuthService(userRepo, tokens, logger)

	router := newRouter(routerDeps{
		cfg:       cfg,
		logger:    logger,
		redis:     rdb,
		tokens:    tokens,
		auth:      authService,
		tenants:   tenantService,
		plans:     planService,
		subs:      subscriptionService,
		billing:   billingService,
		webhooks:  webhookService,
		content:   contentService,
		templates: templateService,
		analytics: analyticsService,
	})

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		pool:   pool,
		redis:  rdb,
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the backing stores.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("http shutdown failed", zap.Error(err))
	}
	s.pool.Close()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("redis close failed", zap.Error(err))
		}
	}
	s.logger.Sync()
}
