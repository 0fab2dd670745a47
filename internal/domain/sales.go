package domain

import "time"

// ============================================================
// Sales
// ============================================================

// PaymentType of a sale.
type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentEMI     PaymentType = "emi"
	PaymentFinance PaymentType = "finance"
	PaymentPending PaymentType = "pending"
)

// Valid reports whether the payment type is a known value.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentFull, PaymentEMI, PaymentFinance, PaymentPending:
		return true
	}
	return false
}

// Sale is a completed (or pending-payment) showroom sale.
type Sale struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customer_id"`
	CustomerName string      `json:"customer_name,omitempty"`
	EmployeeID   string      `json:"employee_id"`
	EmployeeName string      `json:"employee_name,omitempty"`
	Items        string      `json:"items,omitempty"` // free-text item summary
	Amount       float64     `json:"amount"`
	PaymentType  PaymentType `json:"payment_type"`
	// SaleDate is a calendar date (YYYY-MM-DD).
	SaleDate  string    `json:"sale_date"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ============================================================
// Quotations
// ============================================================

// QuotationStatus of a quotation.
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationExpired  QuotationStatus = "expired"
)

// Valid reports whether the quotation status is a known value.
func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected, QuotationExpired:
		return true
	}
	return false
}

// QuotationItem is one line of a quotation.
type QuotationItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Quotation is a priced offer to a customer.
type Quotation struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Items        []QuotationItem `json:"items"`
	Total        float64         `json:"total"`
	// ValidUntil is a calendar date (YYYY-MM-DD).
	ValidUntil string          `json:"valid_until"`
	Status     QuotationStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	CreatedBy  string          `json:"created_by,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
