package handlers

import (
	"net/http"
	"strconv"

	"egovpapua-service/internal/domain/template"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	templatesvc "egovpapua-service/internal/service/template"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	svc *templatesvc.TemplateService
}

func NewTemplateHandler(svc *templatesvc.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) Create(c *gin.Context) {
	var req template.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	t, err := h.svc.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "template created", t)
}

// List returns the template catalog. Only super admins see inactive entries.
func (h *TemplateHandler) List(c *gin.Context) {
	sub := middleware.SubjectFrom(c)
	includeInactive := c.Query("include_inactive") == "true"

	templates, err := h.svc.ListTemplates(c.Request.Context(), sub, includeInactive, c.Query("tenant_type"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "templates", templates)
}

func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.GetTemplate(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "template", t)
}

func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req template.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	t, err := h.svc.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "template updated", t)
}

func (h *TemplateHandler) SetActive(c *gin.Context) {
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

	if err := h.svc.SetTemplateActive(c.Request.Context(), id, *req.Active); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "template updated", nil)
}

func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTemplate(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "template deleted", nil)
}

func (h *TemplateHandler) GetTheme(c *gin.Context) {
	tenantID, _ := strconv.ParseInt(c.Query("tenant_id"), 10, 64)

	ts, err := h.svc.GetTheme(c.Request.Context(), middleware.SubjectFrom(c), tenantID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "theme settings", ts)
}

func (h *TemplateHandler) SaveTheme(c *gin.Context) {
	var req template.SaveThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	// Super admins pick the target tenant via query; tenant users are pinned
	// to their own.
	tenantID, _ := strconv.ParseInt(c.Query("tenant_id"), 10, 64)

	ts, err := h.svc.SaveTheme(c.Request.Context(), middleware.SubjectFrom(c), tenantID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "theme settings saved", ts)
}

// PublicTheme serves the resolved theme for one tenant site. No auth.
func (h *TemplateHandler) PublicTheme(c *gin.Context) {
	view, err := h.svc.PublicTheme(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "theme", view)
}
