package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/plutov/paypal/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PayPalGateway covers both the one-time and pay-in-4 flows. The SDK's
// order-create surface carries no pay-later payment source, so the
// installment offer is presented on the approval page; order and capture
// calls are otherwise identical.
type PayPalGateway struct {
	client *paypal.Client
}

func NewPayPalGateway(clientID, secret string, live bool) (*PayPalGateway, error) {
	if clientID == "" || secret == "" {
		return nil, nil
	}

	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}

	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	return &PayPalGateway{client: c}, nil
}

func (g *PayPalGateway) ensureAuth(ctx context.Context) error {
	if g.client.Token != nil {
		return nil
	}
	_, err := g.client.GetAccessToken(ctx)
	return err
}

func (g *PayPalGateway) CreateOrder(ctx context.Context, req CreateWalletOrderRequest) (*WalletOrder, error) {
	if g == nil {
		return nil, ErrNotConfigured
	}
	if err := g.ensureAuth(ctx); err != nil {
		return nil, err
	}

	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: req.RequestID,
		Amount: &paypal.PurchaseUnitAmount{
			Currency: strings.ToUpper(req.Currency),
			Value:    decimal.NewFromFloat(req.Amount).StringFixed(2),
		},
	}}

	appCtx := &paypal.ApplicationContext{
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
	}

	if req.Installments > 0 {
		log.Debug().
			Str("request_id", req.RequestID).
			Int("installments", req.Installments).
			Msg("pay later order")
	}

	// The request id makes order creation replay-safe across reloads.
	order, err := g.client.CreateOrderWithPaypalRequestID(ctx, paypal.OrderIntentCapture, units, nil, appCtx, req.RequestID)
	if err != nil {
		return nil, mapPayPalErr(err)
	}

	out := &WalletOrder{
		ProviderOrderID: order.ID,
		Status:          mapPayPalStatus(order.Status),
	}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			out.ApproveURL = link.Href
		}
	}
	return out, nil
}

func (g *PayPalGateway) CaptureOrder(ctx context.Context, providerOrderID string) (*PaymentRecord, error) {
	if g == nil {
		return nil, ErrNotConfigured
	}
	if err := g.ensureAuth(ctx); err != nil {
		return nil, err
	}

	capture, err := g.client.CaptureOrder(ctx, providerOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		log.Warn().
			Str("provider", "paypal").
			Str("provider_order_id", providerOrderID).
			Err(err).
			Msg("order capture failed")
		return nil, mapPayPalErr(err)
	}

	rec := &PaymentRecord{
		Provider:      "paypal",
		Status:        mapPayPalStatus(string(capture.Status)),
		TransactionID: capture.ID,
		CreatedAt:     time.Now().UTC(),
	}

	for _, pu := range capture.PurchaseUnits {
		if pu.Payments == nil {
			continue
		}
		for _, c := range pu.Payments.Captures {
			// Prefer the capture id: refunds are keyed on it, not the order.
			rec.TransactionID = c.ID
			if c.Amount != nil {
				rec.Amount = parseMoney(c.Amount.Value)
				rec.Currency = c.Amount.Currency
			}
		}
	}

	if rec.Status == StatusCompleted {
		now := time.Now().UTC()
		rec.CompletedAt = &now
	}
	return rec, nil
}

func (g *PayPalGateway) Payment(ctx context.Context, providerOrderID string) (*PaymentRecord, error) {
	if g == nil {
		return nil, ErrNotConfigured
	}
	if err := g.ensureAuth(ctx); err != nil {
		return nil, err
	}

	order, err := g.client.GetOrder(ctx, providerOrderID)
	if err != nil {
		return nil, mapPayPalErr(err)
	}

	rec := &PaymentRecord{
		Provider:      "paypal",
		Status:        mapPayPalStatus(order.Status),
		TransactionID: order.ID,
	}
	if order.CreateTime != nil {
		rec.CreatedAt = order.CreateTime.UTC()
	}
	if order.UpdateTime != nil && rec.Status == StatusCompleted {
		t := order.UpdateTime.UTC()
		rec.CompletedAt = &t
	}
	for _, pu := range order.PurchaseUnits {
		if pu.Amount != nil {
			rec.Amount = parseMoney(pu.Amount.Value)
			rec.Currency = pu.Amount.Currency
		}
	}
	return rec, nil
}

func (g *PayPalGateway) Refund(ctx context.Context, captureID string, amount float64, currency string) (bool, error) {
	if g == nil {
		return false, ErrNotConfigured
	}
	if err := g.ensureAuth(ctx); err != nil {
		return false, err
	}

	req := paypal.RefundCaptureRequest{}
	if amount > 0 {
		req.Amount = &paypal.Money{
			Currency: strings.ToUpper(currency),
			Value:    decimal.NewFromFloat(amount).StringFixed(2),
		}
	}

	resp, err := g.client.RefundCapture(ctx, captureID, req)
	if err != nil {
		var payErr *paypal.ErrorResponse
		if errors.As(err, &payErr) {
			log.Error().
				Str("provider", "paypal").
				Str("code", payErr.Name).
				Str("capture_id", captureID).
				Msg("refund rejected")
			return false, nil
		}
		return false, err
	}

	return resp.Status == "COMPLETED" || resp.Status == "PENDING", nil
}

func mapPayPalStatus(status string) string {
	switch status {
	case "COMPLETED":
		return StatusCompleted
	case "CREATED", "SAVED", "APPROVED", "PAYER_ACTION_REQUIRED", "PENDING":
		return StatusPending
	case "VOIDED", "DECLINED", "CANCELLED":
		return StatusFailed
	default:
		return StatusPending
	}
}

func mapPayPalErr(err error) error {
	var payErr *paypal.ErrorResponse
	if errors.As(err, &payErr) && payErr.Name == "RESOURCE_NOT_FOUND" {
		return ErrNotFound
	}
	return err
}

func parseMoney(value string) float64 {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
