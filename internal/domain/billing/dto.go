package billing

type CreateInvoiceRequest struct {
	TenantID int64 `json:"tenantId" binding:"required"`
	PlanID   int64 `json:"planId" binding:"required"`
}

type CreateInvoiceResponse struct {
	Invoice      *Invoice      `json:"invoice"`
	Subscription *Subscription `json:"subscription"`
}

type PayInvoiceRequest struct {
	InvoiceID int64  `json:"invoiceId" binding:"required"`
	Method    string `json:"method" binding:"required"`
}

type PayInvoiceResponse struct {
	Payment   *Payment `json:"payment"`
	SnapToken string   `json:"snapToken,omitempty"`
	SnapURL   string   `json:"snapUrl,omitempty"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
