package handlers

import (
	"net/http"

	"egovpapua-service/internal/domain/billing"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	subsvc "egovpapua-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	svc *subsvc.SubscriptionService
}

func NewSubscriptionHandler(svc *subsvc.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	subs, err := h.svc.List(c.Request.Context(), middleware.SubjectFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "subscriptions", subs)
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	sub, err := h.svc.Get(c.Request.Context(), middleware.SubjectFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "subscription", sub)
}

// Activate, Suspend, Cancel and Expire are the administrative transitions.
// Each propagates the derived status down to the tenant.

func (h *SubscriptionHandler) Activate(c *gin.Context) {
	h.transition(c, billing.SubscriptionActive, "subscription activated")
}

func (h *SubscriptionHandler) Suspend(c *gin.Context) {
	h.transition(c, billing.SubscriptionSuspended, "subscription suspended")
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	h.transition(c, billing.SubscriptionCancelled, "subscription cancelled")
}

func (h *SubscriptionHandler) Expire(c *gin.Context) {
	h.transition(c, billing.SubscriptionExpired, "subscription expired")
}

func (h *SubscriptionHandler) transition(c *gin.Context, status billing.SubscriptionStatus, message string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// Optional body carries a reason for cancellations.
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	sub, err := h.svc.Transition(c.Request.Context(), id, status, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, message, sub)
}
