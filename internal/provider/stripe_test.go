package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v78"
)

func TestNewStripeGateway_Unconfigured(t *testing.T) {
	g := NewStripeGateway("")
	assert.Nil(t, g)

	// A nil gateway stays callable behind the interface; every method
	// answers ErrNotConfigured instead of panicking.
	_, err := g.Charge(context.Background(), ChargeRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = g.Payment(context.Background(), "pi_1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = g.Refund(context.Background(), "pi_1", 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestMapStripeStatus(t *testing.T) {
	cases := []struct {
		in   stripe.PaymentIntentStatus
		want string
	}{
		{stripe.PaymentIntentStatusSucceeded, StatusCompleted},
		{stripe.PaymentIntentStatusProcessing, StatusProcessing},
		{stripe.PaymentIntentStatusCanceled, StatusFailed},
		{stripe.PaymentIntentStatusRequiresPaymentMethod, StatusFailed},
		{stripe.PaymentIntentStatusRequiresAction, StatusPending},
		{stripe.PaymentIntentStatusRequiresConfirmation, StatusPending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapStripeStatus(tc.in), string(tc.in))
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(56100), toMinorUnits(561))
	assert.Equal(t, int64(15550), toMinorUnits(155.50))
	// 19.99 is not representable in binary floating point; the decimal
	// round-trip must still land on 1999
	assert.Equal(t, int64(1999), toMinorUnits(19.99))

	assert.Equal(t, 561.0, fromMinorUnits(56100))
	assert.Equal(t, 19.99, fromMinorUnits(1999))
}

func TestDeclineReason_NoRawCodesLeak(t *testing.T) {
	cases := []struct {
		code stripe.ErrorCode
		want string
	}{
		{stripe.ErrorCodeCardDeclined, "card declined"},
		{stripe.ErrorCodeExpiredCard, "card expired"},
		{stripe.ErrorCodeIncorrectCVC, "card verification failed"},
		{stripe.ErrorCodeProcessingError, "payment could not be processed"},
		{stripe.ErrorCode("some_new_code"), "payment failed"},
	}
	for _, tc := range cases {
		got := declineReason(&stripe.Error{Code: tc.code})
		assert.Equal(t, tc.want, got)
		assert.NotContains(t, got, "_", "reasons are sentences, not provider codes")
	}
}
