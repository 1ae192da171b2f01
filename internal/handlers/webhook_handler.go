package handlers

import (
	"errors"
	"net/http"

	"egovpapua-service/internal/domain/billing"
	xerrors "egovpapua-service/internal/pkg/errors"
	"egovpapua-service/internal/pkg/gateway"
	"egovpapua-service/internal/pkg/response"
	billingsvc "egovpapua-service/internal/service/billing"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	svc *billingsvc.WebhookService
}

func NewWebhookHandler(svc *billingsvc.WebhookService) *WebhookHandler {
	return &WebhookHandler{svc: svc}
}

// Midtrans receives gateway notifications. The response codes matter: the
// gateway retries on non-2xx, so only signature failures and unknown orders
// get an error status.
func (h *WebhookHandler) Midtrans(c *gin.Context) {
	var n gateway.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		response.ValidationError(c, "invalid notification payload", err)
		return
	}

	status, err := h.svc.HandleNotification(c.Request.Context(), n)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidSignature):
			c.JSON(http.StatusForbidden, billing.WebhookResponse{
				Success: false,
				Message: "invalid signature",
			})
		case errors.Is(err, xerrors.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, billing.WebhookResponse{
				Success: false,
				Message: "payment not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, billing.WebhookResponse{
				Success: false,
				Message: "failed to process notification",
			})
		}
		return
	}

	c.JSON(http.StatusOK, billing.WebhookResponse{
		Success: true,
		Message: "notification processed",
		Status:  string(status),
	})
}
