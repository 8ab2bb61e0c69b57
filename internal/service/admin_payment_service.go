package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/provider"
)

var (
	ErrUnknownProvider      = errors.New("unknown payment provider")
	ErrRefundExceedsCapture = errors.New("refund amount exceeds the remaining captured amount")
	ErrRefundNotRefundable  = errors.New("payment is not in a refundable state")
)

// AdminPaymentService backs the inspector: fetch a provider-side record by
// transaction id, issue refunds, and assemble a per-order timeline.
type AdminPaymentService struct {
	payments PaymentStore
	cards    provider.CardGateway
	wallet   provider.WalletGateway
}

func NewAdminPaymentService(payments PaymentStore, cards provider.CardGateway, wallet provider.WalletGateway) *AdminPaymentService {
	return &AdminPaymentService{payments: payments, cards: cards, wallet: wallet}
}

// Fetch queries the provider directly. The provider is the source of truth
// for disputes; the local row is only a snapshot.
func (s *AdminPaymentService) Fetch(ctx context.Context, providerName, transactionID string) (*provider.PaymentRecord, error) {
	switch providerName {
	case model.ProviderStripe:
		return s.cards.Payment(ctx, transactionID)
	case model.ProviderPayPal:
		return s.paypalRecord(ctx, transactionID)
	case model.ProviderBankTransfer:
		return s.bankRecord(ctx, transactionID)
	default:
		return nil, ErrUnknownProvider
	}
}

// paypalRecord resolves the id class before asking the provider: completed
// rows store the capture id in transaction_id, but PayPal's lookup API only
// resolves order ids, so the stored order id wins when a local row exists.
func (s *AdminPaymentService) paypalRecord(ctx context.Context, transactionID string) (*provider.PaymentRecord, error) {
	lookupID := transactionID
	p, err := s.payments.FindByTransactionID(ctx, model.ProviderPayPal, transactionID)
	switch {
	case err == nil:
		if p.ProviderOrderID != "" {
			lookupID = p.ProviderOrderID
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, err
	}

	rec, err := s.wallet.Payment(ctx, lookupID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		// Echo the id the operator asked about, not the order id.
		rec.TransactionID = p.TransactionID
	}
	return rec, nil
}

// bankRecord synthesizes a record from the local row since there is no
// provider to ask.
func (s *AdminPaymentService) bankRecord(ctx context.Context, transactionID string) (*provider.PaymentRecord, error) {
	p, err := s.payments.FindByTransactionID(ctx, model.ProviderBankTransfer, transactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, provider.ErrNotFound
		}
		return nil, err
	}
	return &provider.PaymentRecord{
		Provider:      model.ProviderBankTransfer,
		Status:        p.Status,
		Amount:        p.Amount,
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		CompletedAt:   p.CompletedAt,
	}, nil
}

// Refund issues a partial or full refund. amount of zero means refund the
// full remaining captured amount. Over-ceiling requests are rejected, never
// clamped; the operator typed a number and must see it refused as-is.
func (s *AdminPaymentService) Refund(ctx context.Context, providerName, transactionID string, amount float64) (*dto.RefundResponse, error) {
	p, err := s.payments.FindByTransactionID(ctx, providerName, transactionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Status != model.PaymentStatusCompleted && p.Status != model.PaymentStatusRefunded {
		return nil, ErrRefundNotRefundable
	}

	captured := decimal.NewFromFloat(p.Amount)
	refunded := decimal.NewFromFloat(p.RefundedAmount)
	remaining := captured.Sub(refunded)

	requested := decimal.NewFromFloat(amount)
	if requested.IsZero() {
		requested = remaining
	}
	if !requested.IsPositive() || requested.GreaterThan(remaining) {
		return nil, ErrRefundExceedsCapture
	}
	amountF, _ := requested.Float64()

	var ok bool
	switch providerName {
	case model.ProviderStripe:
		ok, err = s.cards.Refund(ctx, transactionID, amountF)
	case model.ProviderPayPal:
		ok, err = s.wallet.Refund(ctx, transactionID, amountF, p.Currency)
	case model.ProviderBankTransfer:
		// Manual SEPA transfer back to the client; recorded locally so the
		// remaining ceiling stays accurate.
		ok = true
	default:
		return nil, ErrUnknownProvider
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &dto.RefundResponse{Refunded: false}, nil
	}

	if err := s.payments.RecordRefund(ctx, providerName, transactionID, amountF); err != nil {
		return nil, fmt.Errorf("record refund: %w", err)
	}
	return &dto.RefundResponse{Refunded: true}, nil
}

// Timeline lists every payment attempt for an order, newest first, with the
// live provider view fetched alongside. A provider being down degrades that
// entry to the local snapshot instead of failing the whole timeline.
func (s *AdminPaymentService) Timeline(ctx context.Context, reference string) ([]dto.PaymentTimelineEntry, error) {
	payments, err := s.payments.ListByOrder(ctx, reference)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.PaymentTimelineEntry, len(payments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range payments {
		i, p := i, p
		entries[i].Payment = p
		if p.TransactionID == "" || p.Provider == model.ProviderBankTransfer {
			continue
		}
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, 10*time.Second)
			defer cancel()

			rec, err := s.Fetch(fctx, p.Provider, p.TransactionID)
			if err != nil {
				entries[i].LiveErr = err.Error()
				return nil
			}
			entries[i].Live = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
