package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/provider"
)

func seedCompletedPayment(t *testing.T, payments *fakePaymentStore, providerName, txnID string, amount, refunded float64) {
	t.Helper()
	require.NoError(t, payments.Insert(context.Background(), &model.Payment{
		OrderReference: "HJR-adm",
		Provider:       providerName,
		Method:         model.MethodCard,
		Status:         model.PaymentStatusCompleted,
		Amount:         amount,
		Currency:       "AED",
		TransactionID:  txnID,
		RefundedAmount: refunded,
	}))
}

func TestAdminPaymentService_Fetch(t *testing.T) {
	t.Run("stripe routes to the card gateway", func(t *testing.T) {
		card := &fakeCardGateway{record: &provider.PaymentRecord{Provider: model.ProviderStripe, Status: provider.StatusCompleted, TransactionID: "pi_1"}}
		svc := NewAdminPaymentService(&fakePaymentStore{}, card, &fakeWalletGateway{})

		rec, err := svc.Fetch(context.Background(), model.ProviderStripe, "pi_1")
		require.NoError(t, err)
		assert.Equal(t, "pi_1", rec.TransactionID)
	})

	t.Run("paypal capture id is looked up by its order id", func(t *testing.T) {
		payments := &fakePaymentStore{}
		require.NoError(t, payments.Insert(context.Background(), &model.Payment{
			OrderReference:  "HJR-adm",
			Provider:        model.ProviderPayPal,
			Method:          model.MethodPayPal,
			Status:          model.PaymentStatusCompleted,
			Amount:          561,
			Currency:        "AED",
			TransactionID:   "CAP-9",
			ProviderOrderID: "PP-9",
		}))
		wallet := &fakeWalletGateway{captured: &provider.PaymentRecord{
			Provider: model.ProviderPayPal, Status: provider.StatusCompleted, TransactionID: "PP-9",
		}}
		svc := NewAdminPaymentService(payments, &fakeCardGateway{}, wallet)

		rec, err := svc.Fetch(context.Background(), model.ProviderPayPal, "CAP-9")
		require.NoError(t, err)

		// GetOrder only resolves order ids, so the stored order id must be
		// the one sent to the provider while the response keeps the capture
		// id the operator asked about.
		assert.Equal(t, "PP-9", wallet.lastPaymentID)
		assert.Equal(t, "CAP-9", rec.TransactionID)
	})

	t.Run("paypal id with no local row goes to the provider as-is", func(t *testing.T) {
		wallet := &fakeWalletGateway{captured: &provider.PaymentRecord{
			Provider: model.ProviderPayPal, Status: provider.StatusPending, TransactionID: "PP-ghost",
		}}
		svc := NewAdminPaymentService(&fakePaymentStore{}, &fakeCardGateway{}, wallet)

		rec, err := svc.Fetch(context.Background(), model.ProviderPayPal, "PP-ghost")
		require.NoError(t, err)
		assert.Equal(t, "PP-ghost", wallet.lastPaymentID)
		assert.Equal(t, "PP-ghost", rec.TransactionID)
	})

	t.Run("bank transfer synthesizes from the local row", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderBankTransfer, "HJR-wire-1", 561, 0)
		svc := NewAdminPaymentService(payments, &fakeCardGateway{}, &fakeWalletGateway{})

		rec, err := svc.Fetch(context.Background(), model.ProviderBankTransfer, "HJR-wire-1")
		require.NoError(t, err)
		assert.Equal(t, model.ProviderBankTransfer, rec.Provider)
		assert.Equal(t, 561.0, rec.Amount)
	})

	t.Run("bad: unknown provider", func(t *testing.T) {
		svc := NewAdminPaymentService(&fakePaymentStore{}, &fakeCardGateway{}, &fakeWalletGateway{})

		_, err := svc.Fetch(context.Background(), "western_union", "x")
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})
}

func TestAdminPaymentService_Refund(t *testing.T) {
	t.Run("happy: partial refund is recorded", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_r1", 561, 0)
		card := &fakeCardGateway{refundOK: true}
		svc := NewAdminPaymentService(payments, card, &fakeWalletGateway{})

		resp, err := svc.Refund(context.Background(), model.ProviderStripe, "pi_r1", 100)
		require.NoError(t, err)
		assert.True(t, resp.Refunded)
		assert.Equal(t, 100.0, payments.payments[0].RefundedAmount)
		assert.Equal(t, model.PaymentStatusCompleted, payments.payments[0].Status)
	})

	t.Run("happy: zero amount means full remaining refund", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_r2", 561, 100)
		card := &fakeCardGateway{refundOK: true}
		svc := NewAdminPaymentService(payments, card, &fakeWalletGateway{})

		resp, err := svc.Refund(context.Background(), model.ProviderStripe, "pi_r2", 0)
		require.NoError(t, err)
		assert.True(t, resp.Refunded)
		assert.Equal(t, 561.0, payments.payments[0].RefundedAmount)
		assert.Equal(t, model.PaymentStatusRefunded, payments.payments[0].Status)
	})

	t.Run("bad: refund above remaining capture is rejected, not clamped", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_r3", 561, 500)
		svc := NewAdminPaymentService(payments, &fakeCardGateway{refundOK: true}, &fakeWalletGateway{})

		_, err := svc.Refund(context.Background(), model.ProviderStripe, "pi_r3", 100)
		assert.ErrorIs(t, err, ErrRefundExceedsCapture)
		assert.Equal(t, 500.0, payments.payments[0].RefundedAmount, "nothing must be recorded on rejection")
	})

	t.Run("bad: fully refunded payment has nothing left", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_r4", 561, 561)
		payments.payments[0].Status = model.PaymentStatusRefunded
		svc := NewAdminPaymentService(payments, &fakeCardGateway{refundOK: true}, &fakeWalletGateway{})

		_, err := svc.Refund(context.Background(), model.ProviderStripe, "pi_r4", 0)
		assert.ErrorIs(t, err, ErrRefundExceedsCapture)
	})

	t.Run("bad: pending payment is not refundable", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_r5", 561, 0)
		payments.payments[0].Status = model.PaymentStatusPending
		svc := NewAdminPaymentService(payments, &fakeCardGateway{refundOK: true}, &fakeWalletGateway{})

		_, err := svc.Refund(context.Background(), model.ProviderStripe, "pi_r5", 100)
		assert.ErrorIs(t, err, ErrRefundNotRefundable)
	})

	t.Run("provider declines without error", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_r6", 561, 0)
		svc := NewAdminPaymentService(payments, &fakeCardGateway{refundOK: false}, &fakeWalletGateway{})

		resp, err := svc.Refund(context.Background(), model.ProviderStripe, "pi_r6", 100)
		require.NoError(t, err)
		assert.False(t, resp.Refunded)
		assert.Zero(t, payments.payments[0].RefundedAmount)
	})

	t.Run("bank transfer refund is recorded locally", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderBankTransfer, "HJR-wire-2", 561, 0)
		svc := NewAdminPaymentService(payments, &fakeCardGateway{}, &fakeWalletGateway{})

		resp, err := svc.Refund(context.Background(), model.ProviderBankTransfer, "HJR-wire-2", 561)
		require.NoError(t, err)
		assert.True(t, resp.Refunded)
		assert.Equal(t, model.PaymentStatusRefunded, payments.payments[0].Status)
	})
}

func TestAdminPaymentService_Timeline(t *testing.T) {
	t.Run("live records attached per entry", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_t1", 561, 0)
		card := &fakeCardGateway{record: &provider.PaymentRecord{Provider: model.ProviderStripe, Status: provider.StatusCompleted, TransactionID: "pi_t1"}}
		svc := NewAdminPaymentService(payments, card, &fakeWalletGateway{})

		entries, err := svc.Timeline(context.Background(), "HJR-adm")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.NotNil(t, entries[0].Live)
		assert.Equal(t, "pi_t1", entries[0].Live.TransactionID)
	})

	t.Run("provider outage degrades to the local snapshot", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderStripe, "pi_t2", 561, 0)
		card := &fakeCardGateway{err: provider.ErrNotConfigured}
		svc := NewAdminPaymentService(payments, card, &fakeWalletGateway{})

		entries, err := svc.Timeline(context.Background(), "HJR-adm")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].Live)
		assert.NotEmpty(t, entries[0].LiveErr)
		assert.Equal(t, "pi_t2", entries[0].Payment.TransactionID)
	})

	t.Run("captured paypal rows refresh through the order id", func(t *testing.T) {
		payments := &fakePaymentStore{}
		require.NoError(t, payments.Insert(context.Background(), &model.Payment{
			OrderReference:  "HJR-adm",
			Provider:        model.ProviderPayPal,
			Method:          model.MethodPayPal,
			Status:          model.PaymentStatusCompleted,
			Amount:          561,
			Currency:        "AED",
			TransactionID:   "CAP-t4",
			ProviderOrderID: "PP-t4",
		}))
		wallet := &fakeWalletGateway{captured: &provider.PaymentRecord{
			Provider: model.ProviderPayPal, Status: provider.StatusCompleted, TransactionID: "PP-t4",
		}}
		svc := NewAdminPaymentService(payments, &fakeCardGateway{}, wallet)

		entries, err := svc.Timeline(context.Background(), "HJR-adm")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "PP-t4", wallet.lastPaymentID)
		require.NotNil(t, entries[0].Live)
		assert.Empty(t, entries[0].LiveErr)
	})

	t.Run("bank transfer rows are never looked up live", func(t *testing.T) {
		payments := &fakePaymentStore{}
		seedCompletedPayment(t, payments, model.ProviderBankTransfer, "HJR-wire-3", 561, 0)
		svc := NewAdminPaymentService(payments, &fakeCardGateway{}, &fakeWalletGateway{})

		entries, err := svc.Timeline(context.Background(), "HJR-adm")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].Live)
		assert.Empty(t, entries[0].LiveErr)
	})
}
