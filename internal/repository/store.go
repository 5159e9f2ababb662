package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/tourbooking/internal/domain"
)

// ErrNotFound is returned when a lookup or keyed update matches no row.
var ErrNotFound = errors.New("record not found")

type PaymentRepository interface {
	GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error)
	GetPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)
	// GetPaymentByTransactionID locks the row for the rest of the transaction when called on a Tx.
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
}

type BookingRepository interface {
	GetBookingWithUser(ctx context.Context, bookingID string) (*domain.BookingWithUser, error)
}

// Tx is one transaction spanning payments and bookings. Writes are only
// visible to other readers after Commit. Rollback after Commit is a no-op.
type Tx interface {
	PaymentRepository
	BookingRepository
	UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error)
	UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.BookingDetails, error)
	SetInvoiceURL(ctx context.Context, paymentID, url string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Store interface {
	PaymentRepository
	BookingRepository
	Begin(ctx context.Context) (Tx, error)
}
