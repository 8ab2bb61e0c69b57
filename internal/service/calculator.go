package service

import (
	"github.com/shopspring/decimal"

	"github.com/hijrafr/expat-services-api/internal/dto"
	"github.com/hijrafr/expat-services-api/internal/model"
)

// Processing fee: 2% of the subtotal with a 5-unit floor, so trivially small
// orders are never free to process. Rounded half away from zero to the whole
// currency unit, matching how the invoices display amounts.
var (
	feeRate    = decimal.NewFromFloat(0.02)
	minimumFee = decimal.NewFromInt(5)
)

// ResolveSelection maps service codes onto catalog rows, collapsing
// duplicates and preserving first-seen order. Codes without a catalog row end
// up in unknown instead of silently vanishing: the caller decides whether
// that is an error.
func ResolveSelection(byCode map[string]model.ServiceOption, codes []string) (items []model.OrderItem, unknown []string) {
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true

		svc, ok := byCode[code]
		if !ok {
			unknown = append(unknown, code)
			continue
		}
		items = append(items, model.OrderItem{
			ServiceCode: svc.Code,
			ServiceName: svc.Name,
			Price:       svc.Price,
		})
	}
	return items, unknown
}

func CalculateSubtotal(items []model.OrderItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price))
	}
	return subtotal
}

func CalculateFee(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	fee := subtotal.Mul(feeRate).Round(0)
	if fee.LessThan(minimumFee) {
		return minimumFee
	}
	return fee
}

// Summarize builds the hand-off contract between catalog browsing and
// checkout. An empty selection prices to all-zero with checkout disabled; a
// zero-value order must never reach a payment provider.
func Summarize(items []model.OrderItem, currency, country string) dto.OrderSummary {
	subtotal := CalculateSubtotal(items)
	fee := CalculateFee(subtotal)
	total := subtotal.Add(fee)

	subtotalF, _ := subtotal.Float64()
	feeF, _ := fee.Float64()
	totalF, _ := total.Float64()

	return dto.OrderSummary{
		Services:        items,
		Subtotal:        subtotalF,
		Fees:            feeF,
		Total:           totalF,
		Currency:        currency,
		Country:         country,
		CheckoutAllowed: subtotal.IsPositive(),
	}
}
