package notification

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tourbooking/internal/email"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/metrics"
	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

type statusTemplateData struct {
	UserName      string
	TourTitle     string
	TransactionID string
	Outcome       string
}

// Notifier e-mails users when a payment ends without success.
// Success e-mails carry the invoice and are sent by the payment service.
type Notifier struct {
	mailer Mailer
	logger *zap.Logger
}

func NewNotifier(mailer Mailer, logger *zap.Logger) *Notifier {
	return &Notifier{mailer: mailer, logger: logger}
}

func (n *Notifier) HandlePaymentEvent(ctx context.Context, event kafka.PaymentEvent) error {
	var outcome, subject string
	switch event.Type {
	case kafka.EventPaymentFailed:
		outcome, subject = "unsuccessful", "Your payment was not completed"
	case kafka.EventPaymentCancelled:
		outcome, subject = "cancelled", "Your payment was cancelled"
	default:
		return nil
	}

	logger := n.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("transaction_id", event.TransactionID),
	)
	if event.Email == "" {
		logger.Warn("payment event has no recipient")
		return nil
	}

	err := n.mailer.Send(ctx, email.Message{
		To:           event.Email,
		Subject:      subject,
		TemplateName: "payment_status",
		TemplateData: statusTemplateData{
			UserName:      event.UserName,
			TourTitle:     event.TourTitle,
			TransactionID: event.TransactionID,
			Outcome:       outcome,
		},
	})
	if err != nil {
		return fmt.Errorf("send %s notification: %w", event.Type, err)
	}

	metrics.RecordNotificationSent(event.Type)
	logger.Info("payment status notification sent")
	return nil
}
