package memory

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/repository"
)

var ErrTxDone = errors.New("transaction already committed or rolled back")

type Tx struct {
	store    *Store
	payments map[string]domain.Payment
	bookings map[string]domain.Booking
	done     bool
}

func (t *Tx) read() (snapshot, func()) {
	t.store.mu.RLock()
	return t.store.view(t.payments, t.bookings), t.store.mu.RUnlock
}

func (t *Tx) GetPaymentByID(_ context.Context, id string) (*domain.Payment, error) {
	if t.done {
		return nil, ErrTxDone
	}
	v, unlock := t.read()
	defer unlock()
	return v.paymentByID(id)
}

func (t *Tx) GetPaymentByBookingID(_ context.Context, bookingID string) (*domain.Payment, error) {
	if t.done {
		return nil, ErrTxDone
	}
	v, unlock := t.read()
	defer unlock()
	return v.paymentBy(func(p domain.Payment) bool { return p.BookingID == bookingID })
}

func (t *Tx) GetPaymentByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	if t.done {
		return nil, ErrTxDone
	}
	v, unlock := t.read()
	defer unlock()
	return v.paymentBy(func(p domain.Payment) bool { return p.TransactionID == transactionID })
}

func (t *Tx) GetBookingWithUser(_ context.Context, bookingID string) (*domain.BookingWithUser, error) {
	if t.done {
		return nil, ErrTxDone
	}
	v, unlock := t.read()
	defer unlock()
	return v.bookingWithUser(bookingID)
}

func (t *Tx) UpdatePaymentStatus(_ context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	if t.done {
		return nil, ErrTxDone
	}
	v, unlock := t.read()
	p, err := v.paymentBy(func(p domain.Payment) bool { return p.TransactionID == transactionID })
	unlock()
	if err != nil {
		return nil, err
	}

	p.Status = status
	p.UpdatedAt = time.Now()
	t.payments[p.ID] = clonePayment(*p)
	return p, nil
}

func (t *Tx) UpdateBookingStatus(_ context.Context, bookingID string, status domain.BookingStatus) (*domain.BookingDetails, error) {
	if t.done {
		return nil, ErrTxDone
	}
	v, unlock := t.read()
	b, ok := v.booking(bookingID)
	unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}

	b.Status = status
	b.UpdatedAt = time.Now()
	t.bookings[b.ID] = b

	v, unlock = t.read()
	defer unlock()
	return v.bookingDetails(bookingID)
}

func (t *Tx) SetInvoiceURL(_ context.Context, paymentID, url string) error {
	if t.done {
		return ErrTxDone
	}
	v, unlock := t.read()
	p, ok := v.payment(paymentID)
	unlock()
	if !ok {
		return repository.ErrNotFound
	}

	p = clonePayment(p)
	p.InvoiceURL = &url
	p.UpdatedAt = time.Now()
	t.payments[p.ID] = p
	return nil
}

func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	defer t.store.txMu.Unlock()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, p := range t.payments {
		t.store.payments[id] = p
		t.store.writes++
	}
	for id, b := range t.bookings {
		t.store.bookings[id] = b
		t.store.writes++
	}
	return nil
}

func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.payments = nil
	t.bookings = nil
	t.store.txMu.Unlock()
	return nil
}

var _ repository.Tx = (*Tx)(nil)
