package domain

import "time"

type InvoiceData struct {
	BookingDate   time.Time
	GuestCount    int
	TotalAmount   float64
	TourTitle     string
	TransactionID string
	UserName      string
}

func NewInvoiceData(payment *Payment, booking *BookingDetails) InvoiceData {
	return InvoiceData{
		BookingDate:   booking.CreatedAt,
		GuestCount:    booking.GuestCount,
		TotalAmount:   payment.Amount,
		TourTitle:     booking.Tour.Title,
		TransactionID: payment.TransactionID,
		UserName:      booking.User.Name,
	}
}
