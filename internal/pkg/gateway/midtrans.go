package gateway

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapParams describes one checkout session request.
type SnapParams struct {
	OrderID       string
	Amount        int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Items         []SnapItem
}

type SnapItem struct {
	ID       string
	Name     string
	Price    int64
	Quantity int32
}

// SnapSession is the token/URL pair returned by the gateway.
type SnapSession struct {
	Token       string
	RedirectURL string
}

// SnapGateway creates checkout sessions with the payment gateway.
type SnapGateway interface {
	CreateTransaction(ctx context.Context, params SnapParams) (*SnapSession, error)
}

type snapClient struct {
	client snap.Client
}

// NewSnapClient builds a Midtrans Snap client for the given environment.
func NewSnapClient(serverKey string, production bool) SnapGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	c := snap.Client{}
	c.New(serverKey, env)
	return &snapClient{client: c}
}

func (s *snapClient) CreateTransaction(ctx context.Context, params SnapParams) (*SnapSession, error) {
	items := make([]midtrans.ItemDetails, 0, len(params.Items))
	for _, it := range params.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    it.ID,
			Name:  it.Name,
			Price: it.Price,
			Qty:   it.Quantity,
		})
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  params.OrderID,
			GrossAmt: params.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: params.CustomerName,
			Email: params.CustomerEmail,
			Phone: params.CustomerPhone,
		},
		Items: &items,
	}

	resp, merr := s.client.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("snap transaction failed: %w", merr)
	}

	return &SnapSession{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// Notification is the payload Midtrans posts to the webhook endpoint.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	VANumbers         []VA   `json:"va_numbers,omitempty"`
}

type VA struct {
	Bank     string `json:"bank"`
	VANumber string `json:"va_number"`
}

// Signature computes the notification signature:
// sha512(order_id || status_code || gross_amount || serverKey) hex digest.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks the supplied signature in constant time.
func VerifySignature(n Notification, serverKey string) bool {
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// ParseStatus maps the Midtrans transaction_status/fraud_status pair to an
// internal payment status and a human-readable message.
func ParseStatus(n Notification) (status string, message string) {
	switch n.TransactionStatus {
	case "capture":
		switch n.FraudStatus {
		case "accept":
			return "success", "Payment successful"
		case "challenge":
			return "processing", "Payment under review"
		default:
			return "failed", "Payment failed - fraud detected"
		}
	case "settlement":
		return "success", "Payment settled"
	case "pending":
		return "pending", "Waiting for payment"
	case "deny":
		return "failed", "Payment denied"
	case "expire":
		return "failed", "Payment expired"
	case "cancel":
		return "cancelled", "Payment cancelled"
	}
	return "failed", "Unknown status"
}
