package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "INITIATED"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

type Payment struct {
	ID            string
	BookingID     string
	TransactionID string
	Amount        float64
	Status        PaymentStatus
	InvoiceURL    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasInvoice reports whether an invoice has already been stored for the payment.
func (p *Payment) HasInvoice() bool {
	return p.InvoiceURL != nil && *p.InvoiceURL != ""
}
