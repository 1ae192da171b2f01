package handlers

import (
	"net/http"

	"egovpapua-service/internal/domain/user"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	"egovpapua-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *auth.AuthService
}

func NewAuthHandler(svc *auth.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "login successful", resp)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	u, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "user created", u)
}

func (h *AuthHandler) Me(c *gin.Context) {
	sub := middleware.SubjectFrom(c)
	u, err := h.svc.GetUser(c.Request.Context(), sub.IdentityID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "current user", u)
}
