// Package provider wraps the payment processors behind a normalized boundary.
// Raw SDK payloads never leave this package; callers only ever see
// PaymentRecord and the small request/response structs below.
package provider

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotConfigured signals missing provider credentials. Surfaced as a
	// configuration notice instead of attempting a call that will fail.
	ErrNotConfigured = errors.New("payment provider not configured")
	// ErrNotFound means the provider has no record for the given id.
	ErrNotFound = errors.New("payment not found")
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusRefunded   = "refunded"
)

type Refund struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentRecord is the provider-agnostic view of a charge. The provider
// remains the source of truth; this is a display/decision snapshot.
type PaymentRecord struct {
	Provider      string     `json:"provider"`
	Status        string     `json:"status"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	TransactionID string     `json:"transaction_id"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	Refunds       []Refund   `json:"refunds,omitempty"`
}

type ChargeRequest struct {
	// IdempotencyKey is the order reference; replaying the same key must not
	// create a second billable charge.
	IdempotencyKey  string
	Amount          float64
	Currency        string
	PaymentMethodID string
	Description     string
}

// CardGateway is the server-confirmed card flow. Charge only reports
// completed when the provider itself asserts the intent succeeded.
type CardGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*PaymentRecord, error)
	Payment(ctx context.Context, transactionID string) (*PaymentRecord, error)
	Refund(ctx context.Context, transactionID string, amount float64) (bool, error)
}

type WalletOrder struct {
	ProviderOrderID string `json:"provider_order_id"`
	Status          string `json:"status"`
	ApproveURL      string `json:"approve_url,omitempty"`
}

type CreateWalletOrderRequest struct {
	RequestID string // order reference, doubles as the provider request id
	Amount    float64
	Currency  string
	ReturnURL string
	CancelURL string
	// Installments is non-zero for the pay-in-4 variant.
	Installments int
}

// WalletGateway is the redirect-and-approve flow (PayPal, one-time and
// pay-in-4; both run the same order/capture calls, the installment split is
// offered on the provider's approval page).
type WalletGateway interface {
	CreateOrder(ctx context.Context, req CreateWalletOrderRequest) (*WalletOrder, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (*PaymentRecord, error)
	Payment(ctx context.Context, providerOrderID string) (*PaymentRecord, error)
	Refund(ctx context.Context, captureID string, amount float64, currency string) (bool, error)
}
