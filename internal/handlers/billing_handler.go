package handlers

import (
	"net/http"

	"egovpapua-service/internal/domain/billing"
	"egovpapua-service/internal/middleware"
	"egovpapua-service/internal/pkg/response"
	billingsvc "egovpapua-service/internal/service/billing"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	svc *billingsvc.BillingService
}

func NewBillingHandler(svc *billingsvc.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// CreateInvoice issues a subscription and its invoice for a tenant/plan pair.
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req billing.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	resp, err := h.svc.IssueInvoice(c.Request.Context(), req.TenantID, req.PlanID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "invoice created", resp)
}

// PayInvoice initiates a payment, opening a gateway checkout session for
// midtrans methods.
func (h *BillingHandler) PayInvoice(c *gin.Context) {
	var req billing.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", err)
		return
	}

	resp, err := h.svc.PayInvoice(c.Request.Context(), req.InvoiceID, billing.PaymentMethod(req.Method))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "payment initiated", resp)
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.svc.ListInvoices(c.Request.Context(), middleware.SubjectFrom(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "invoices", invoices)
}

func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	inv, err := h.svc.GetInvoice(c.Request.Context(), middleware.SubjectFrom(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "invoice", inv)
}
