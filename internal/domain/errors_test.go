package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "not found", err: NotFound("Payment not found"), expected: http.StatusNotFound},
		{name: "wrapped bad request", err: fmt.Errorf("init: %w", BadRequest("User not found")), expected: http.StatusBadRequest},
		{name: "conflict", err: Conflict("busy"), expected: http.StatusConflict},
		{name: "plain error", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusOf(tc.err))
		})
	}
}

func TestNewInvoiceData(t *testing.T) {
	url := "https://cdn.example.com/invoice.pdf"
	payment := &Payment{TransactionID: "TX1", Amount: 100, InvoiceURL: &url}
	booking := &BookingDetails{
		Booking: Booking{GuestCount: 3},
		Tour:    TourSummary{Title: "Sundarbans"},
		User:    UserProfile{Name: "Rahim"},
	}

	data := NewInvoiceData(payment, booking)

	assert.Equal(t, 3, data.GuestCount)
	assert.Equal(t, 100.0, data.TotalAmount)
	assert.Equal(t, "Sundarbans", data.TourTitle)
	assert.Equal(t, "TX1", data.TransactionID)
	assert.Equal(t, "Rahim", data.UserName)
	assert.True(t, payment.HasInvoice())
}

func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("cloudinary timeout")
	err := Internal("Error uploading invoice").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error uploading invoice: cloudinary timeout", err.Error())
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, "Error uploading invoice", NotFound("Error uploading invoice").Message)
}
