package memory

import (
	"context"
	"testing"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *Store {
	s := NewStore()
	s.AddUser(domain.UserProfile{ID: "u1", Name: "Rahim", Email: "rahim@example.com"})
	s.AddTour(domain.TourSummary{ID: "t1", Title: "Cox's Bazar"})
	s.AddBooking(domain.Booking{ID: "b1", UserID: "u1", TourID: "t1", GuestCount: 2, Status: domain.BookingStatusPending})
	s.AddPayment(domain.Payment{ID: "p1", BookingID: "b1", TransactionID: "TX1", Amount: 100})
	return s
}

func TestStore_Lookups(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	p, err := s.GetPaymentByBookingID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "TX1", p.TransactionID)
	assert.Equal(t, domain.PaymentStatusInitiated, p.Status)

	p, err = s.GetPaymentByTransactionID(ctx, "TX1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	b, err := s.GetBookingWithUser(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, b.User)
	assert.Equal(t, "rahim@example.com", b.User.Email)

	_, err = s.GetPaymentByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetBookingWithUser(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_BookingWithoutUser(t *testing.T) {
	s := NewStore()
	s.AddBooking(domain.Booking{ID: "b2", UserID: "ghost"})

	b, err := s.GetBookingWithUser(context.Background(), "b2")
	require.NoError(t, err)
	assert.Nil(t, b.User)
}

func TestTx_CommitPublishesAllWrites(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	p, err := tx.UpdatePaymentStatus(ctx, "TX1", domain.PaymentStatusPaid)
	require.NoError(t, err)
	details, err := tx.UpdateBookingStatus(ctx, p.BookingID, domain.BookingStatusComplete)
	require.NoError(t, err)
	assert.Equal(t, "Cox's Bazar", details.Tour.Title)
	assert.Equal(t, "Rahim", details.User.Name)
	require.NoError(t, tx.SetInvoiceURL(ctx, p.ID, "https://cdn/invoice.pdf"))

	// not visible outside the transaction yet
	committed, _ := s.Payment("p1")
	assert.Equal(t, domain.PaymentStatusInitiated, committed.Status)
	inside, err := tx.GetPaymentByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, inside.Status)

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx))

	committed, _ = s.Payment("p1")
	assert.Equal(t, domain.PaymentStatusPaid, committed.Status)
	require.NotNil(t, committed.InvoiceURL)
	assert.Equal(t, "https://cdn/invoice.pdf", *committed.InvoiceURL)
	booking, _ := s.Booking("b1")
	assert.Equal(t, domain.BookingStatusComplete, booking.Status)
	assert.Equal(t, 2, s.Writes())
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.UpdatePaymentStatus(ctx, "TX1", domain.PaymentStatusFailed)
	require.NoError(t, err)
	_, err = tx.UpdateBookingStatus(ctx, "b1", domain.BookingStatusFailed)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	p, _ := s.Payment("p1")
	assert.Equal(t, domain.PaymentStatusInitiated, p.Status)
	b, _ := s.Booking("b1")
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Zero(t, s.Writes())

	_, err = tx.GetPaymentByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrTxDone)
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)

	// the store accepts a new transaction once the previous one is released
	tx2, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx2.Rollback(ctx))
}

func TestTx_UpdateUnknownRecords(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.UpdatePaymentStatus(ctx, "TX-unknown", domain.PaymentStatusCancelled)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = tx.UpdateBookingStatus(ctx, "missing", domain.BookingStatusCancel)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, tx.SetInvoiceURL(ctx, "missing", "url"), repository.ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	p, err := s.GetPaymentByID(ctx, "p1")
	require.NoError(t, err)
	p.Status = domain.PaymentStatusPaid

	again, _ := s.Payment("p1")
	assert.Equal(t, domain.PaymentStatusInitiated, again.Status)
}
