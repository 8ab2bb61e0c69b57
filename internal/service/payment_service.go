package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/hijrafr/expat-services-api/internal/config"
	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/provider"
)

var (
	ErrAlreadyPaid       = errors.New("order is already paid")
	ErrCardTokenRequired = errors.New("payment_method_id is required for card payments")
	ErrPaymentNotFound   = errors.New("payment not found")
)

// OrderStore and PaymentStore are the slices of the repositories the
// dispatcher needs; the concrete pgx repositories satisfy them.
type OrderStore interface {
	FindByReference(ctx context.Context, reference string) (*model.Order, error)
	UpdateStatus(ctx context.Context, reference, status string) error
}

type PaymentStore interface {
	Insert(ctx context.Context, p *model.Payment) error
	LatestByOrder(ctx context.Context, reference string) (*model.Payment, error)
	ListByOrder(ctx context.Context, reference string) ([]model.Payment, error)
	FindByTransactionID(ctx context.Context, provider, transactionID string) (*model.Payment, error)
	MarkOutcome(ctx context.Context, id, status, transactionID, failureReason string) error
	ReplaceProviderOrder(ctx context.Context, id, providerOrderID string) error
	RecordRefund(ctx context.Context, provider, transactionID string, amount float64) error
}

// PaymentService renders exactly one payment flow per request and normalizes
// every provider outcome to completed, failed or pending on the payment row.
type PaymentService struct {
	orders   OrderStore
	payments PaymentStore
	cards    provider.CardGateway
	wallet   provider.WalletGateway
	bank     config.BankDetails
}

func NewPaymentService(orders OrderStore, payments PaymentStore, cards provider.CardGateway, wallet provider.WalletGateway, bank config.BankDetails) *PaymentService {
	return &PaymentService{orders: orders, payments: payments, cards: cards, wallet: wallet, bank: bank}
}

func (s *PaymentService) Dispatch(ctx context.Context, reference string, req *dto.CreatePaymentRequest) (*dto.PaymentInitiation, error) {
	order, err := s.loadPayableOrder(ctx, reference)
	if err != nil {
		return nil, err
	}

	existing, err := s.payments.LatestByOrder(ctx, reference)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil && existing.Status == model.PaymentStatusCompleted {
		return nil, ErrAlreadyPaid
	}

	switch req.Method {
	case model.MethodCard:
		return s.dispatchCard(ctx, order, req)
	case model.MethodBankTransfer:
		return s.dispatchBankTransfer(ctx, order, existing)
	case model.MethodPayPal, model.MethodPayPalPayIn4:
		return s.dispatchPayPal(ctx, order, existing, req)
	default:
		return nil, fmt.Errorf("unsupported payment method %q", req.Method)
	}
}

func (s *PaymentService) dispatchCard(ctx context.Context, order *model.Order, req *dto.CreatePaymentRequest) (*dto.PaymentInitiation, error) {
	if req.PaymentMethodID == "" {
		return nil, ErrCardTokenRequired
	}

	// The idempotency key is the order reference: a reload mid-flow replays
	// the same key and cannot produce a second billable charge.
	rec, err := s.cards.Charge(ctx, provider.ChargeRequest{
		IdempotencyKey:  order.Reference,
		Amount:          order.Total,
		Currency:        order.Currency,
		PaymentMethodID: req.PaymentMethodID,
		Description:     "Commande " + order.Reference,
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		OrderReference: order.Reference,
		Provider:       model.ProviderStripe,
		Method:         model.MethodCard,
		Status:         rec.Status,
		Amount:         order.Total,
		Currency:       order.Currency,
		TransactionID:  rec.TransactionID,
		FailureReason:  rec.FailureReason,
		CompletedAt:    rec.CompletedAt,
	}
	if err := s.payments.Insert(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, order.Reference, orderStatusFor(rec.Status)); err != nil {
		return nil, err
	}

	return &dto.PaymentInitiation{Payment: *payment}, nil
}

func (s *PaymentService) dispatchBankTransfer(ctx context.Context, order *model.Order, existing *model.Payment) (*dto.PaymentInitiation, error) {
	payment := existing
	if payment == nil || payment.Method != model.MethodBankTransfer || payment.Status != model.PaymentStatusPending {
		payment = &model.Payment{
			OrderReference: order.Reference,
			Provider:       model.ProviderBankTransfer,
			Method:         model.MethodBankTransfer,
			Status:         model.PaymentStatusPending,
			Amount:         order.Total,
			Currency:       order.Currency,
		}
		if err := s.payments.Insert(ctx, payment); err != nil {
			return nil, err
		}
		if err := s.orders.UpdateStatus(ctx, order.Reference, model.OrderStatusProcessing); err != nil {
			return nil, err
		}
	}

	// No provider callback exists for transfers: the payment stays pending
	// until the back office reconciles the incoming funds by reference.
	return &dto.PaymentInitiation{
		Payment: *payment,
		BankInstructions: &dto.BankInstructions{
			BankName:      s.bank.BankName,
			AccountHolder: s.bank.AccountHolder,
			IBAN:          s.bank.IBAN,
			BIC:           s.bank.BIC,
			Amount:        order.Total,
			Currency:      order.Currency,
			Reference:     order.Reference,
		},
	}, nil
}

func (s *PaymentService) dispatchPayPal(ctx context.Context, order *model.Order, existing *model.Payment, req *dto.CreatePaymentRequest) (*dto.PaymentInitiation, error) {
	installments := 0
	if req.Method == model.MethodPayPalPayIn4 {
		installments = 4
	}

	wo, err := s.wallet.CreateOrder(ctx, provider.CreateWalletOrderRequest{
		RequestID:    order.Reference,
		Amount:       order.Total,
		Currency:     order.Currency,
		ReturnURL:    req.ReturnURL,
		CancelURL:    req.CancelURL,
		Installments: installments,
	})
	if err != nil {
		return nil, err
	}

	payment := existing
	if payment != nil && payment.Provider == model.ProviderPayPal && payment.Status == model.PaymentStatusProcessing {
		if err := s.payments.ReplaceProviderOrder(ctx, payment.ID, wo.ProviderOrderID); err != nil {
			return nil, err
		}
		payment.TransactionID = wo.ProviderOrderID
		payment.ProviderOrderID = wo.ProviderOrderID
	} else {
		payment = &model.Payment{
			OrderReference:  order.Reference,
			Provider:        model.ProviderPayPal,
			Method:          req.Method,
			Status:          model.PaymentStatusProcessing,
			Amount:          order.Total,
			Currency:        order.Currency,
			TransactionID:   wo.ProviderOrderID,
			ProviderOrderID: wo.ProviderOrderID,
		}
		if err := s.payments.Insert(ctx, payment); err != nil {
			return nil, err
		}
		if err := s.orders.UpdateStatus(ctx, order.Reference, model.OrderStatusProcessing); err != nil {
			return nil, err
		}
	}

	return &dto.PaymentInitiation{
		Payment:      *payment,
		ApproveURL:   wo.ApproveURL,
		Installments: installments,
	}, nil
}

// CapturePayPal finalizes an approved PayPal order. User cancellation and
// provider-side failure both normalize to one failed outcome.
func (s *PaymentService) CapturePayPal(ctx context.Context, reference, providerOrderID string) (*model.Payment, error) {
	if _, err := s.loadPayableOrder(ctx, reference); err != nil {
		return nil, err
	}

	payment, err := s.payments.FindByTransactionID(ctx, model.ProviderPayPal, providerOrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.OrderReference != reference {
		return nil, ErrPaymentNotFound
	}

	rec, err := s.wallet.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) || errors.Is(err, provider.ErrNotFound) {
			return nil, err
		}
		log.Error().
			Str("provider", "paypal").
			Str("order_reference", reference).
			Err(err).
			Msg("capture failed")
		return s.settle(ctx, payment, reference, model.PaymentStatusFailed, providerOrderID,
			"le paiement a été annulé ou a échoué")
	}

	switch rec.Status {
	case provider.StatusCompleted:
		return s.settle(ctx, payment, reference, model.PaymentStatusCompleted, rec.TransactionID, "")
	case provider.StatusFailed:
		return s.settle(ctx, payment, reference, model.PaymentStatusFailed, rec.TransactionID, rec.FailureReason)
	default:
		return s.settle(ctx, payment, reference, model.PaymentStatusProcessing, rec.TransactionID, "")
	}
}

func (s *PaymentService) settle(ctx context.Context, payment *model.Payment, reference, status, transactionID, failureReason string) (*model.Payment, error) {
	if err := s.payments.MarkOutcome(ctx, payment.ID, status, transactionID, failureReason); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, reference, orderStatusFor(status)); err != nil {
		return nil, err
	}

	payment.Status = status
	payment.TransactionID = transactionID
	payment.FailureReason = failureReason
	return payment, nil
}

func (s *PaymentService) loadPayableOrder(ctx context.Context, reference string) (*model.Order, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.Status == model.OrderStatusPaid {
		return nil, ErrAlreadyPaid
	}
	return order, nil
}

func orderStatusFor(paymentStatus string) string {
	switch paymentStatus {
	case model.PaymentStatusCompleted:
		return model.OrderStatusPaid
	case model.PaymentStatusFailed:
		return model.OrderStatusFailed
	default:
		return model.OrderStatusProcessing
	}
}
