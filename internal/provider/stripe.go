package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeGateway drives the card flow through PaymentIntents. The legacy
// client-side "simulate success after a delay" behavior is deliberately gone:
// a charge is completed only when Stripe reports the intent succeeded.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	if secretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (*PaymentRecord, error) {
	if g == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(toMinorUnits(req.Amount)),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Description:   stripe.String(req.Description),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.SetIdempotencyKey(req.IdempotencyKey)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			log.Warn().
				Str("provider", "stripe").
				Str("code", string(stripeErr.Code)).
				Str("idempotency_key", req.IdempotencyKey).
				Msg("card charge declined")
			return &PaymentRecord{
				Provider:      "stripe",
				Status:        StatusFailed,
				Amount:        req.Amount,
				Currency:      strings.ToUpper(req.Currency),
				CreatedAt:     time.Now().UTC(),
				FailureReason: declineReason(stripeErr),
			}, nil
		}
		return nil, err
	}

	return g.mapIntent(pi, nil), nil
}

func (g *StripeGateway) Payment(ctx context.Context, transactionID string) (*PaymentRecord, error) {
	if g == nil {
		return nil, ErrNotConfigured
	}

	pi, err := g.api.PaymentIntents.Get(transactionID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrNotFound
		}
		return nil, err
	}

	refunds, err := g.listRefunds(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return g.mapIntent(pi, refunds), nil
}

func (g *StripeGateway) Refund(ctx context.Context, transactionID string, amount float64) (bool, error) {
	if g == nil {
		return false, ErrNotConfigured
	}

	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(transactionID),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(toMinorUnits(amount))
	}

	ref, err := g.api.Refunds.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			log.Error().
				Str("provider", "stripe").
				Str("code", string(stripeErr.Code)).
				Str("transaction_id", transactionID).
				Msg("refund rejected")
			return false, nil
		}
		return false, err
	}

	return ref.Status == stripe.RefundStatusSucceeded || ref.Status == stripe.RefundStatusPending, nil
}

func (g *StripeGateway) listRefunds(ctx context.Context, transactionID string) ([]Refund, error) {
	params := &stripe.RefundListParams{PaymentIntent: stripe.String(transactionID)}
	params.Context = ctx

	var refunds []Refund
	iter := g.api.Refunds.List(params)
	for iter.Next() {
		r := iter.Refund()
		refunds = append(refunds, Refund{
			ID:        r.ID,
			Amount:    fromMinorUnits(r.Amount),
			Status:    string(r.Status),
			CreatedAt: time.Unix(r.Created, 0).UTC(),
		})
	}
	return refunds, iter.Err()
}

func (g *StripeGateway) mapIntent(pi *stripe.PaymentIntent, refunds []Refund) *PaymentRecord {
	created := time.Unix(pi.Created, 0).UTC()
	rec := &PaymentRecord{
		Provider:      "stripe",
		Status:        mapStripeStatus(pi.Status),
		Amount:        fromMinorUnits(pi.Amount),
		Currency:      strings.ToUpper(string(pi.Currency)),
		TransactionID: pi.ID,
		CreatedAt:     created,
		Refunds:       refunds,
	}
	if rec.Status == StatusCompleted {
		rec.CompletedAt = &created
	}
	if pi.LastPaymentError != nil {
		rec.FailureReason = declineReason(pi.LastPaymentError)
	}

	var refunded float64
	for _, r := range refunds {
		if r.Status == "succeeded" {
			refunded += r.Amount
		}
	}
	if refunded > 0 && refunded >= rec.Amount {
		rec.Status = StatusRefunded
	}
	return rec
}

func mapStripeStatus(status stripe.PaymentIntentStatus) string {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCompleted
	case stripe.PaymentIntentStatusProcessing:
		return StatusProcessing
	case stripe.PaymentIntentStatusCanceled,
		stripe.PaymentIntentStatusRequiresPaymentMethod:
		return StatusFailed
	default:
		return StatusPending
	}
}

// declineReason keeps the user-facing message provider-agnostic; the raw code
// goes to the log, not to the client.
func declineReason(e *stripe.Error) string {
	switch e.Code {
	case stripe.ErrorCodeCardDeclined:
		return "card declined"
	case stripe.ErrorCodeExpiredCard:
		return "card expired"
	case stripe.ErrorCodeIncorrectCVC:
		return "card verification failed"
	case stripe.ErrorCodeProcessingError:
		return "payment could not be processed"
	default:
		return "payment failed"
	}
}

func toMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(minor int64) float64 {
	f, _ := decimal.NewFromInt(minor).Div(decimal.NewFromInt(100)).Float64()
	return f
}
