package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/tourbooking/internal/email"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestNotifier_HandlePaymentEvent(t *testing.T) {
	testCases := []struct {
		name    string
		event   kafka.PaymentEvent
		outcome string
		subject string
	}{
		{
			name:    "failed",
			event:   kafka.PaymentEvent{ID: "e1", Type: kafka.EventPaymentFailed, TransactionID: "TX1", Email: "alice@example.com", UserName: "Alice", TourTitle: "Sundarbans"},
			outcome: "unsuccessful",
			subject: "Your payment was not completed",
		},
		{
			name:    "cancelled",
			event:   kafka.PaymentEvent{ID: "e2", Type: kafka.EventPaymentCancelled, TransactionID: "TX2", Email: "bob@example.com"},
			outcome: "cancelled",
			subject: "Your payment was cancelled",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mailer := &MockMailer{}
			notifier := NewNotifier(mailer, zaptest.NewLogger(t))
			ctx := context.Background()

			mailer.On("Send", ctx, email.Message{
				To:           tc.event.Email,
				Subject:      tc.subject,
				TemplateName: "payment_status",
				TemplateData: statusTemplateData{
					UserName:      tc.event.UserName,
					TourTitle:     tc.event.TourTitle,
					TransactionID: tc.event.TransactionID,
					Outcome:       tc.outcome,
				},
			}).Return(nil).Once()

			err := notifier.HandlePaymentEvent(ctx, tc.event)

			assert.NoError(t, err)
			mailer.AssertExpectations(t)
		})
	}
}

func TestNotifier_IgnoresOtherEvents(t *testing.T) {
	mailer := &MockMailer{}
	notifier := NewNotifier(mailer, zaptest.NewLogger(t))

	err := notifier.HandlePaymentEvent(context.Background(), kafka.PaymentEvent{Type: kafka.EventPaymentSucceeded, Email: "alice@example.com"})

	assert.NoError(t, err)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifier_SkipsMissingRecipient(t *testing.T) {
	mailer := &MockMailer{}
	notifier := NewNotifier(mailer, zaptest.NewLogger(t))

	err := notifier.HandlePaymentEvent(context.Background(), kafka.PaymentEvent{Type: kafka.EventPaymentFailed, TransactionID: "TX1"})

	assert.NoError(t, err)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifier_SendError(t *testing.T) {
	mailer := &MockMailer{}
	notifier := NewNotifier(mailer, zaptest.NewLogger(t))
	sendErr := errors.New("smtp unavailable")
	mailer.On("Send", mock.Anything, mock.Anything).Return(sendErr).Once()

	err := notifier.HandlePaymentEvent(context.Background(), kafka.PaymentEvent{Type: kafka.EventPaymentCancelled, Email: "alice@example.com"})

	assert.ErrorIs(t, err, sendErr)
	mailer.AssertExpectations(t)
}
