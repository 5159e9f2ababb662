// Package memory is an in-process implementation of repository.Store.
// Transactions are serialised and their writes stay invisible to other
// readers until Commit.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/repository"
)

type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	users    map[string]domain.UserProfile
	tours    map[string]domain.TourSummary
	bookings map[string]domain.Booking
	payments map[string]domain.Payment
	writes   int
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]domain.UserProfile),
		tours:    make(map[string]domain.TourSummary),
		bookings: make(map[string]domain.Booking),
		payments: make(map[string]domain.Payment),
	}
}

func (s *Store) AddUser(u domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) AddTour(t domain.TourSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours[t.ID] = t
}

func (s *Store) AddBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	s.bookings[b.ID] = b
}

func (s *Store) AddPayment(p domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Status == "" {
		p.Status = domain.PaymentStatusInitiated
	}
	s.payments[p.ID] = clonePayment(p)
}

// Payment returns the committed state of a payment.
func (s *Store) Payment(id string) (domain.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	return clonePayment(p), ok
}

// Booking returns the committed state of a booking.
func (s *Store) Booking(id string) (domain.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	return b, ok
}

// Writes counts records changed by committed transactions.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) GetPaymentByID(_ context.Context, id string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil, nil).paymentByID(id)
}

func (s *Store) GetPaymentByBookingID(_ context.Context, bookingID string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil, nil).paymentBy(func(p domain.Payment) bool { return p.BookingID == bookingID })
}

func (s *Store) GetPaymentByTransactionID(_ context.Context, transactionID string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil, nil).paymentBy(func(p domain.Payment) bool { return p.TransactionID == transactionID })
}

func (s *Store) GetBookingWithUser(_ context.Context, bookingID string) (*domain.BookingWithUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view(nil, nil).bookingWithUser(bookingID)
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	return &Tx{
		store:    s,
		payments: make(map[string]domain.Payment),
		bookings: make(map[string]domain.Booking),
	}, nil
}

// view reads committed state overlaid with staged writes. Callers hold s.mu.
func (s *Store) view(payments map[string]domain.Payment, bookings map[string]domain.Booking) snapshot {
	return snapshot{store: s, stagedPayments: payments, stagedBookings: bookings}
}

type snapshot struct {
	store          *Store
	stagedPayments map[string]domain.Payment
	stagedBookings map[string]domain.Booking
}

func (v snapshot) payment(id string) (domain.Payment, bool) {
	if p, ok := v.stagedPayments[id]; ok {
		return p, true
	}
	p, ok := v.store.payments[id]
	return p, ok
}

func (v snapshot) booking(id string) (domain.Booking, bool) {
	if b, ok := v.stagedBookings[id]; ok {
		return b, true
	}
	b, ok := v.store.bookings[id]
	return b, ok
}

func (v snapshot) paymentByID(id string) (*domain.Payment, error) {
	p, ok := v.payment(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := clonePayment(p)
	return &c, nil
}

func (v snapshot) paymentBy(match func(domain.Payment) bool) (*domain.Payment, error) {
	for id := range v.store.payments {
		p, _ := v.payment(id)
		if match(p) {
			c := clonePayment(p)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (v snapshot) bookingWithUser(id string) (*domain.BookingWithUser, error) {
	b, ok := v.booking(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	result := &domain.BookingWithUser{Booking: b}
	if u, ok := v.store.users[b.UserID]; ok {
		result.User = &u
	}
	return result, nil
}

func (v snapshot) bookingDetails(id string) (*domain.BookingDetails, error) {
	b, ok := v.booking(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.BookingDetails{
		Booking: b,
		Tour:    v.store.tours[b.TourID],
		User:    v.store.users[b.UserID],
	}, nil
}

func clonePayment(p domain.Payment) domain.Payment {
	if p.InvoiceURL != nil {
		url := *p.InvoiceURL
		p.InvoiceURL = &url
	}
	return p
}

var _ repository.Store = (*Store)(nil)
