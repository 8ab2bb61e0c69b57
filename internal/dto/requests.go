package dto

// QuoteRequest prices a selection without committing to it. An empty
// selection is allowed here (the quote comes back all-zero with checkout
// disabled); order creation is stricter.
type QuoteRequest struct {
	CountryID    string   `json:"country_id" binding:"required"`
	ServiceCodes []string `json:"service_codes"`
}

type CreateOrderRequest struct {
	CountryID    string   `json:"country_id" binding:"required"`
	ServiceCodes []string `json:"service_codes" binding:"required,min=1,max=50"`
}

type CreatePaymentRequest struct {
	Method          string `json:"method" binding:"required,oneof=card bank_transfer paypal paypal_pay_in_4"`
	PaymentMethodID string `json:"payment_method_id"`
	ReturnURL       string `json:"return_url"`
	CancelURL       string `json:"cancel_url"`
}

type CapturePaymentRequest struct {
	ProviderOrderID string `json:"provider_order_id" binding:"required"`
}

type RefundRequest struct {
	// Zero means a full refund.
	Amount float64 `json:"amount" binding:"gte=0"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateAssistanceRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required,email"`
	ClientPhone string `json:"client_phone"`
	CountryID   string `json:"country_id" binding:"required"`
	ServiceCode string `json:"service_code" binding:"required"`
}

type UpdateAssistanceRequest struct {
	Status     string `json:"status" binding:"omitempty,oneof=new in_review awaiting_documents approved rejected closed"`
	Priority   string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo string `json:"assigned_to"`
}

type AddDocumentRequest struct {
	Name    string `json:"name" binding:"required"`
	DocType string `json:"doc_type"`
}

type ReviewDocumentRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Notes  string `json:"notes"`
}

type AddNoteRequest struct {
	Content  string `json:"content" binding:"required"`
	NoteType string `json:"note_type" binding:"omitempty,oneof=internal client_visible"`
}

type CreateBookingRequest struct {
	BookingDate string `json:"booking_date" binding:"required,datetime=2006-01-02"`
	Slot        string `json:"slot" binding:"required"`
	Topic       string `json:"topic"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required,email"`
}
