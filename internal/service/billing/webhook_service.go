package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"egovpapua-service/internal/domain/billing"
	xerrors "egovpapua-service/internal/pkg/errors"
	"egovpapua-service/internal/pkg/gateway"

	"go.uber.org/zap"
)

type WebhookService struct {
	paymentRepo PaymentRepo
	invoiceRepo InvoiceRepo
	serverKey   string
	logger      *zap.Logger
}

func NewWebhookService(paymentRepo PaymentRepo, invoiceRepo InvoiceRepo, serverKey string, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		serverKey:   serverKey,
		logger:      logger,
	}
}

// HandleNotification reconciles one gateway notification against the stored
// payment. The notification is applied unconditionally; the invoice is marked
// paid only on a transition into success, which makes redelivery harmless.
func (s *WebhookService) HandleNotification(ctx context.Context, n gateway.Notification) (billing.PaymentStatus, error) {
	if !gateway.VerifySignature(n, s.serverKey) {
		s.logger.Warn("webhook signature mismatch", zap.String("order_id", n.OrderID))
		return "", xerrors.ErrInvalidSignature
	}

	rawStatus, message := gateway.ParseStatus(n)
	status := billing.PaymentStatus(rawStatus)

	payment, err := s.paymentRepo.FindByOrderID(ctx, n.OrderID)
	if err != nil {
		return "", fmt.Errorf("payment lookup for order %s: %w", n.OrderID, err)
	}

	md := payment.Midtrans
	md.OrderID = n.OrderID
	md.TransactionID = n.TransactionID
	md.TransactionStatus = n.TransactionStatus
	md.PaymentType = n.PaymentType
	if len(n.VANumbers) > 0 {
		md.VANumber = n.VANumbers[0].VANumber
		md.Bank = n.VANumbers[0].Bank
	}

	metadata, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal notification: %w", err)
	}

	prevStatus := payment.Status
	now := time.Now()
	if err := s.paymentRepo.ApplyNotification(ctx, payment.ID, status, md, metadata, now); err != nil {
		return "", err
	}

	s.logger.Info("payment notification applied",
		zap.String("order_id", n.OrderID),
		zap.Int64("payment_id", payment.ID),
		zap.String("status", string(status)),
		zap.String("message", message),
	)

	if status == billing.PaymentSuccess && prevStatus != billing.PaymentSuccess {
		if err := s.invoiceRepo.MarkPaid(ctx, payment.InvoiceID, now); err != nil {
			return "", fmt.Errorf("mark invoice %d paid: %w", payment.InvoiceID, err)
		}
	}

	return status, nil
}
