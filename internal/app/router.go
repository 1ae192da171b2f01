package app

import (
	"time"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/config"
	"egovpapua-service/internal/handlers"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/jwt"
	analyticssvc "egovpapua-service/internal/service/analytics"
	authsvc "egovpapua-service/internal/service/auth"
	billingsvc "egovpapua-service/internal/service/billing"
	contentsvc "egovpapua-service/internal/service/content"
	plansvc "egovpapua-service/internal/service/plan"
	subsvc "egovpapua-service/internal/service/subscription"
	templatesvc "egovpapua-service/internal/service/template"
	tenantsvc "egovpapua-service/internal/service/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type routerDeps struct {
	cfg       config.AppConfig
	logger    *zap.Logger
	redis     *redis.Client
	tokens    *jwt.Manager
	auth      *authsvc.AuthService
	tenants   *tenantsvc.TenantService
	plans     *plansvc.PlanService
	subs      *subsvc.SubscriptionService
	billing   *billingsvc.BillingService
	webhooks  *billingsvc.WebhookService
	content   *contentsvc.ContentService
	templates *templatesvc.TemplateService
	analytics *analyticssvc.AnalyticsService
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(d.logger))
	r.Use(middleware.Logging(d.logger))
	r.Use(middleware.CORS())

	authHandler := handlers.NewAuthHandler(d.auth)
	tenantHandler := handlers.NewTenantHandler(d.tenants)
	planHandler := handlers.NewPlanHandler(d.plans)
	subHandler := handlers.NewSubscriptionHandler(d.subs)
	billingHandler := handlers.NewBillingHandler(d.billing)
	webhookHandler := handlers.NewWebhookHandler(d.webhooks)
	contentHandler := handlers.NewContentHandler(d.content)
	templateHandler := handlers.NewTemplateHandler(d.templates)
	analyticsHandler := handlers.NewAnalyticsHandler(d.analytics)

	authn := middleware.Auth(d.tokens)
	superOnly := middleware.RequireRole(access.RoleSuperAdmin)
	anyAdmin := middleware.RequireRole(access.RoleSuperAdmin, access.RoleTenantAdmin)

	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Visitor tracking sits outside the versioned API and carries its own
	// rate limit.
	r.POST("/track",
		middleware.RateLimit(d.redis, d.cfg.TrackRateLimit, time.Minute, d.logger),
		analyticsHandler.Track,
	)
	r.GET("/stats/revenue", authn, superOnly, analyticsHandler.Revenue)
	r.GET("/stats/:tenantId", authn, analyticsHandler.Stats)

	// Billing keeps the paths the payment frontend and gateway already use.
	billingGroup := r.Group("/api/billing")
	billingGroup.Use(authn)
	{
		billingGroup.POST("/create-invoice", anyAdmin, billingHandler.CreateInvoice)
		billingGroup.POST("/pay-invoice", anyAdmin, billingHandler.PayInvoice)
	}

	r.POST("/api/webhooks/midtrans", webhookHandler.Midtrans)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/users", authn, superOnly, authHandler.CreateUser)
		v1.GET("/auth/me", authn, authHandler.Me)

		v1.GET("/plans", planHandler.List)
		v1.GET("/plans/:id", planHandler.Get)
		v1.POST("/plans", authn, superOnly, planHandler.Create)
		v1.PATCH("/plans/:id", authn, superOnly, planHandler.Update)
		v1.PATCH("/plans/:id/active", authn, superOnly, planHandler.SetActive)
		v1.DELETE("/plans/:id", authn, superOnly, planHandler.Delete)

		v1.POST("/tenants", authn, superOnly, tenantHandler.Create)
		v1.GET("/tenants", authn, tenantHandler.List)
		v1.GET("/tenants/:id", authn, tenantHandler.Get)
		v1.PATCH("/tenants/:id", authn, anyAdmin, tenantHandler.Update)

		v1.GET("/subscriptions", authn, subHandler.List)
		v1.GET("/subscriptions/:id", authn, subHandler.Get)
		v1.PUT("/subscriptions/:id/activate", authn, superOnly, subHandler.Activate)
		v1.PUT("/subscriptions/:id/suspend", authn, superOnly, subHandler.Suspend)
		v1.PUT("/subscriptions/:id/cancel", authn, superOnly, subHandler.Cancel)
		v1.PUT("/subscriptions/:id/expire", authn, superOnly, subHandler.Expire)

		v1.GET("/invoices", authn, billingHandler.ListInvoices)
		v1.GET("/invoices/:id", authn, billingHandler.GetInvoice)

		v1.POST("/content", authn, contentHandler.Create)
		v1.GET("/content", authn, contentHandler.List)
		v1.GET("/content/:id", authn, contentHandler.Get)
		v1.PATCH("/content/:id", authn, contentHandler.Update)
		v1.DELETE("/content/:id", authn, superOnly, contentHandler.Delete)

		v1.GET("/templates", authn, templateHandler.List)
		v1.GET("/templates/:id", authn, templateHandler.Get)
		v1.POST("/templates", authn, superOnly, templateHandler.Create)
		v1.PATCH("/templates/:id", authn, superOnly, templateHandler.Update)
		v1.PATCH("/templates/:id/active", authn, superOnly, templateHandler.SetActive)
		v1.DELETE("/templates/:id", authn, superOnly, templateHandler.Delete)

		v1.GET("/theme", authn, templateHandler.GetTheme)
		v1.PUT("/theme", authn, templateHandler.SaveTheme)

		// Public tenant sites.
		v1.GET("/t/:slug", tenantHandler.GetBySlug)
		v1.GET("/t/:slug/content", contentHandler.ListPublic)
		v1.GET("/t/:slug/theme", templateHandler.PublicTheme)
	}

	return r
}
