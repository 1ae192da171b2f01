package handlers

import (
	"net/http"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/analytics"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	analyticssvc "egovpapua-service/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	svc *analyticssvc.AnalyticsService
}

func NewAnalyticsHandler(svc *analyticssvc.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Track records a visitor event. Public, rate limited upstream.
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req analytics.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	sessionID, err := h.svc.Track(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "event tracked", gin.H{"sessionId": sessionID})
}

// Stats returns the event summary for one tenant.
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	tenantID, ok := paramID(c, "tenantId")
	if !ok {
		return
	}

	if !access.CanAccessTenant(middleware.SubjectFrom(c), tenantID) {
		response.Forbidden(c, "forbidden")
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), tenantID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "analytics summary", stats)
}

// Revenue returns the platform-wide revenue summary. Super admin only.
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	summary, err := h.svc.Revenue(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "revenue summary", summary)
}
