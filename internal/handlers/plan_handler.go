package handlers

import (
	"net/http"

	"egovpapua-service/internal/access"
	"egovpapua-service/internal/domain/plan"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	plansvc "egovpapua-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	svc *plansvc.PlanService
}

func NewPlanHandler(svc *plansvc.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req plan.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "plan created", p)
}

// List is public; only super admins see inactive plans.
func (h *PlanHandler) List(c *gin.Context) {
	sub := middleware.SubjectFrom(c)
	includeInactive := sub.Role == access.RoleSuperAdmin

	plans, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plans", plans)
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plan", p)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req plan.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plan updated", p)
}

func (h *PlanHandler) SetActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	if err := h.svc.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plan updated", nil)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "plan deleted", nil)
}
