package dto

import (
	"github.com/hijrafr/expat-services-api/internal/model"
	"github.com/hijrafr/expat-services-api/internal/provider"
)

// OrderSummary is the hand-off contract between the calculator and the
// payment dispatcher: services snapshot, subtotal, fees, total.
type OrderSummary struct {
	Services        []model.OrderItem `json:"services"`
	Subtotal        float64           `json:"subtotal"`
	Fees            float64           `json:"fees"`
	Total           float64           `json:"total"`
	Currency        string            `json:"currency"`
	Country         string            `json:"country"`
	CheckoutAllowed bool              `json:"checkout_allowed"`
	UnknownCodes    []string          `json:"unknown_codes,omitempty"`
}

type BankInstructions struct {
	BankName      string  `json:"bank_name"`
	AccountHolder string  `json:"account_holder"`
	IBAN          string  `json:"iban"`
	BIC           string  `json:"bic"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	// Reference must appear in the remittance label; it is the only
	// reconciliation key the back office has.
	Reference string `json:"reference"`
}

type PaymentInitiation struct {
	Payment          model.Payment     `json:"payment"`
	BankInstructions *BankInstructions `json:"bank_instructions,omitempty"`
	ApproveURL       string            `json:"approve_url,omitempty"`
	Installments     int               `json:"installments,omitempty"`
}

type RefundResponse struct {
	Refunded bool `json:"refunded"`
}

type PaymentTimelineEntry struct {
	Payment model.Payment           `json:"payment"`
	Live    *provider.PaymentRecord `json:"live,omitempty"`
	LiveErr string                  `json:"live_error,omitempty"`
}

type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
