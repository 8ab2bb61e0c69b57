package model

import (
	"time"
)

type Country struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Flag            string `json:"flag"`
	Currency        string `json:"currency"`
	ExchangeRate    string `json:"exchange_rate"`
	AverageTime     string `json:"average_time"`
	UrgentAvailable bool   `json:"urgent_available"`
	OnlineAvailable bool   `json:"online_available"`
}

type ServiceOption struct {
	ID           string   `json:"id"`
	CountryID    string   `json:"country_id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Duration     string   `json:"duration"`
	Category     string   `json:"category"`
	Requirements []string `json:"requirements"`
	Popular      bool     `json:"popular"`
}

type Destination struct {
	ID           string   `json:"id"`
	CountryID    string   `json:"country_id,omitempty"`
	Name         string   `json:"name"`
	Region       string   `json:"region"`
	Summary      string   `json:"summary"`
	CostOfLiving string   `json:"cost_of_living"`
	Highlights   []string `json:"highlights"`
}

type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	CountryID    string    `json:"country_id,omitempty"`
	ContractType string    `json:"contract_type"`
	SalaryRange  string    `json:"salary_range,omitempty"`
	Description  string    `json:"description,omitempty"`
	PostedAt     time.Time `json:"posted_at"`
}

// OrderItem is a price snapshot taken at selection time; later catalog
// changes never alter an existing order.
type OrderItem struct {
	ServiceCode string  `json:"id"`
	ServiceName string  `json:"name"`
	Price       float64 `json:"price"`
}

const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusProcessing     = "processing"
	OrderStatusPaid           = "paid"
	OrderStatusFailed         = "failed"
)

type Order struct {
	ID          string      `json:"-"`
	Reference   string      `json:"reference"`
	CountryID   string      `json:"country_id"`
	CountryName string      `json:"country"`
	Currency    string      `json:"currency"`
	Subtotal    float64     `json:"subtotal"`
	Fees        float64     `json:"fees"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"services"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

const (
	ProviderStripe       = "stripe"
	ProviderPayPal       = "paypal"
	ProviderBankTransfer = "bank_transfer"
)

const (
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodPayPal       = "paypal"
	MethodPayPalPayIn4 = "paypal_pay_in_4"
)

type Payment struct {
	ID             string  `json:"id"`
	OrderReference string  `json:"order_reference"`
	Provider       string  `json:"provider"`
	Method         string  `json:"method"`
	Status         string  `json:"status"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	TransactionID  string  `json:"transaction_id,omitempty"`
	// ProviderOrderID keeps the PayPal order id once the capture id takes
	// over transaction_id; provider lookups only resolve order ids.
	ProviderOrderID string     `json:"provider_order_id,omitempty"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	RefundedAmount  float64    `json:"refunded_amount"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type AssistanceRequest struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ClientPhone string    `json:"client_phone,omitempty"`
	CountryID   string    `json:"country_id"`
	ServiceCode string    `json:"service_code"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Document struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id"`
	Name        string     `json:"name"`
	DocType     string     `json:"doc_type,omitempty"`
	Status      string     `json:"status"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	ReviewedBy  string     `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	UploadedAt  time.Time  `json:"uploaded_at"`
}

type AdminNote struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Content   string    `json:"content"`
	NoteType  string    `json:"note_type"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Booking struct {
	ID          string    `json:"id"`
	BookingDate string    `json:"booking_date"`
	Slot        string    `json:"slot"`
	Topic       string    `json:"topic,omitempty"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type AdminUser struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Session is the explicit admin session object; passed to whoever needs it,
// never held in a package-level singleton.
type Session struct {
	Token     string    `json:"token"`
	AdminID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
