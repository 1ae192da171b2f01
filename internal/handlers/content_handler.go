package handlers

import (
	"net/http"
	"strconv"

	"egovpapua-service/internal/domain/content"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	contentsvc "egovpapua-service/internal/service/content"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	svc *contentsvc.ContentService
}

func NewContentHandler(svc *contentsvc.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func (h *ContentHandler) Create(c *gin.Context) {
	var req content.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	// Super admins pick the target tenant via query; tenant users are pinned
	// to their own.
	tenantID, _ := strconv.ParseInt(c.Query("tenant_id"), 10, 64)

	e, err := h.svc.Create(c.Request.Context(), middleware.SubjectFrom(c), tenantID, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "content created", e)
}

func (h *ContentHandler) List(c *gin.Context) {
	var filters content.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	entries, err := h.svc.List(c.Request.Context(), middleware.SubjectFrom(c), &filters)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "content entries", entries)
}

func (h *ContentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	e, err := h.svc.Get(c.Request.Context(), middleware.SubjectFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "content entry", e)
}

// ListPublic serves published entries for one tenant site. No auth.
func (h *ContentHandler) ListPublic(c *gin.Context) {
	entries, err := h.svc.ListPublic(c.Request.Context(), c.Param("slug"), c.Query("kind"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "content entries", entries)
}

func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req content.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	e, err := h.svc.Update(c.Request.Context(), middleware.SubjectFrom(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "content updated", e)
}

func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.SubjectFrom(c), id); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "content deleted", nil)
}
