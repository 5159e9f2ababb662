package repository

import (
	"context"

	"github.com/Domenick1991/tourbooking/internal/domain"
)

type PGBookingRepository struct {
	db querier
}

func (r *PGBookingRepository) GetBookingWithUser(ctx context.Context, bookingID string) (*domain.BookingWithUser, error) {
	row := r.db.QueryRow(ctx, `
		SELECT b.id, b.user_id, b.tour_id, b.guest_count, b.status, b.created_at, b.updated_at,
		       u.id, u.name, u.email, u.phone, u.address
		FROM bookings b
		LEFT JOIN users u ON u.id = b.user_id
		WHERE b.id=$1`, bookingID)

	var b domain.BookingWithUser
	var userID, name, email, phone, address *string
	if err := row.Scan(&b.ID, &b.UserID, &b.TourID, &b.GuestCount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&userID, &name, &email, &phone, &address); err != nil {
		return nil, notFound(err)
	}
	if userID != nil {
		b.User = &domain.UserProfile{
			ID:      *userID,
			Name:    deref(name),
			Email:   deref(email),
			Phone:   deref(phone),
			Address: deref(address),
		}
	}
	return &b, nil
}

// UpdateBookingStatus sets the status and returns the booking joined with its tour and user.
func (r *PGBookingRepository) UpdateBookingStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.BookingDetails, error) {
	row := r.db.QueryRow(ctx, `
		WITH updated AS (
			UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2
			RETURNING id, user_id, tour_id, guest_count, status, created_at, updated_at
		)
		SELECT b.id, b.user_id, b.tour_id, b.guest_count, b.status, b.created_at, b.updated_at,
		       COALESCE(t.id, ''), COALESCE(t.title, ''),
		       COALESCE(u.id, ''), COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.phone, ''), COALESCE(u.address, '')
		FROM updated b
		LEFT JOIN tours t ON t.id = b.tour_id
		LEFT JOIN users u ON u.id = b.user_id`, status, bookingID)

	var b domain.BookingDetails
	if err := row.Scan(&b.ID, &b.UserID, &b.TourID, &b.GuestCount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&b.Tour.ID, &b.Tour.Title,
		&b.User.ID, &b.User.Name, &b.User.Email, &b.User.Phone, &b.User.Address); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
