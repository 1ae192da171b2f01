package handlers

import (
	"net/http"

	"egovpapua-service/internal/domain/tenant"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	tenantsvc "egovpapua-service/internal/service/tenant"

	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	svc *tenantsvc.TenantService
}

func NewTenantHandler(svc *tenantsvc.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

func (h *TenantHandler) Create(c *gin.Context) {
	var req tenant.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "tenant created", t)
}

func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.svc.List(c.Request.Context(), middleware.SubjectFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "tenants", tenants)
}

func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.Get(c.Request.Context(), middleware.SubjectFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "tenant", t)
}

// GetBySlug resolves a tenant for the public site. No auth required.
func (h *TenantHandler) GetBySlug(c *gin.Context) {
	t, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "tenant", t)
}

func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req tenant.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	t, err := h.svc.Update(c.Request.Context(), middleware.SubjectFrom(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "tenant updated", t)
}
