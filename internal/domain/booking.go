package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusComplete BookingStatus = "COMPLETE"
	BookingStatusFailed   BookingStatus = "FAILED"
	// CANCEL (not CANCELLED) is what the booking UI and gateway redirects expect.
	BookingStatusCancel BookingStatus = "CANCEL"
)

type Booking struct {
	ID         string
	UserID     string
	TourID     string
	GuestCount int
	Status     BookingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type UserProfile struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

type TourSummary struct {
	ID    string
	Title string
}

// BookingWithUser is a booking joined with the profile of the user who made it.
type BookingWithUser struct {
	Booking
	User *UserProfile
}

// BookingDetails carries everything the invoice needs about a booking.
type BookingDetails struct {
	Booking
	Tour TourSummary
	User UserProfile
}
