package kafka

import (
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/google/uuid"
)

const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
	EventPaymentCancelled = "payment_cancelled"
)

type PaymentEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	PaymentID     string    `json:"payment_id"`
	BookingID     string    `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	InvoiceURL    string    `json:"invoice_url,omitempty"`
	Email         string    `json:"email,omitempty"`
	UserName      string    `json:"user_name,omitempty"`
	TourTitle     string    `json:"tour_title,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewPaymentEvent(eventType string, payment *domain.Payment, booking *domain.BookingDetails) PaymentEvent {
	event := PaymentEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		PaymentID:     payment.ID,
		BookingID:     payment.BookingID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Status:        string(payment.Status),
		OccurredAt:    time.Now().UTC(),
	}
	if payment.InvoiceURL != nil {
		event.InvoiceURL = *payment.InvoiceURL
	}
	if booking != nil {
		event.Email = booking.User.Email
		event.UserName = booking.User.Name
		event.TourTitle = booking.Tour.Title
	}
	return event
}
