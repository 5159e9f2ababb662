package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/email"
	"github.com/Domenick1991/tourbooking/internal/gateway"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/Domenick1991/tourbooking/internal/logging"
	"github.com/Domenick1991/tourbooking/internal/metrics"
	"github.com/Domenick1991/tourbooking/internal/repository"
	"github.com/Domenick1991/tourbooking/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const invoiceFolder = "invoice"

type PaymentUseCase interface {
	InitPayment(ctx context.Context, bookingID string) (*InitResult, error)
	SuccessPayment(ctx context.Context, transactionID string) (*Result, error)
	FailPayment(ctx context.Context, transactionID string) (*Result, error)
	CancelPayment(ctx context.Context, transactionID string) (*Result, error)
	GetInvoiceDownloadURL(ctx context.Context, paymentID string) (string, error)
}

type InitResult struct {
	PaymentURL string `json:"paymentUrl"`
}

type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Gateway interface {
	InitSession(ctx context.Context, req gateway.SessionRequest) (*gateway.Session, error)
}

type InvoiceRenderer interface {
	Render(ctx context.Context, data domain.InvoiceData) ([]byte, error)
}

type Uploader interface {
	Upload(ctx context.Context, data []byte, folder string) (*storage.UploadResult, error)
}

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

type Cache interface {
	AcquireCallbackLock(ctx context.Context, transactionID string, ttl time.Duration) (token string, acquired bool, err error)
	ReleaseCallbackLock(ctx context.Context, transactionID, token string) error
	GetInvoiceURL(ctx context.Context, paymentID string) (string, error)
	SetInvoiceURL(ctx context.Context, paymentID, url string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type PaymentService struct {
	store       repository.Store
	gateway     Gateway
	renderer    InvoiceRenderer
	uploader    Uploader
	mailer      Mailer
	cache       Cache
	lockTTL     time.Duration
	producer    Producer
	eventsTopic string
	logger      *zap.Logger
	tracer      trace.Tracer
}

type PaymentServiceOption func(*PaymentService)

// WithCache enables the duplicate-callback lock and the invoice URL cache.
func WithCache(cache Cache, lockTTL time.Duration) PaymentServiceOption {
	return func(s *PaymentService) {
		s.cache = cache
		s.lockTTL = lockTTL
	}
}

func WithEvents(producer Producer, topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func NewPaymentService(
	store repository.Store,
	gw Gateway,
	renderer InvoiceRenderer,
	uploader Uploader,
	mailer Mailer,
	logger *zap.Logger,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		store:    store,
		gateway:  gw,
		renderer: renderer,
		uploader: uploader,
		mailer:   mailer,
		logger:   logger,
		tracer:   otel.Tracer("github.com/Domenick1991/tourbooking/internal/service/payment"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PaymentService) InitPayment(ctx context.Context, bookingID string) (result *InitResult, err error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.InitPayment", trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer func() { s.finish(span, "init", err) }()

	payment, err := s.store.GetPaymentByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Payment Not Found. You have not booked this tour")
		}
		return nil, fmt.Errorf("get payment by booking: %w", err)
	}

	booking, err := s.store.GetBookingWithUser(ctx, payment.BookingID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil || booking.User == nil {
		return nil, domain.BadRequest("User not found")
	}

	user := booking.User
	session, err := s.gateway.InitSession(ctx, gateway.SessionRequest{
		Address:       strings.TrimSpace(user.Address),
		Email:         strings.TrimSpace(user.Email),
		PhoneNumber:   strings.TrimSpace(user.Phone),
		Name:          strings.TrimSpace(user.Name),
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
	})
	if err != nil {
		return nil, fmt.Errorf("init gateway session: %w", err)
	}
	if session == nil || session.RedirectURL == "" {
		return nil, domain.BadRequest("Payment URL not generated")
	}

	return &InitResult{PaymentURL: session.RedirectURL}, nil
}

// SuccessPayment marks the payment PAID and the booking COMPLETE, then renders,
// uploads and e-mails the invoice. All of it commits together or not at all.
func (s *PaymentService) SuccessPayment(ctx context.Context, transactionID string) (result *Result, err error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.SuccessPayment", trace.WithAttributes(attribute.String("transaction.id", transactionID)))
	defer func() { s.finish(span, "success", err) }()
	logger := s.logger.With(zap.String("transaction_id", transactionID), zap.String("trace_id", logging.TraceID(span)))

	if s.cache != nil {
		token, locked, err := s.cache.AcquireCallbackLock(ctx, transactionID, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire callback lock: %w", err)
		}
		if !locked {
			return nil, domain.Conflict("Payment callback already in progress")
		}
		defer func() {
			if err := s.cache.ReleaseCallbackLock(context.WithoutCancel(ctx), transactionID, token); err != nil {
				logger.Warn("release callback lock", zap.Error(err))
			}
		}()
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	current, err := tx.GetPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Payment not found")
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if current.Status == domain.PaymentStatusPaid && current.HasInvoice() {
		logger.Info("duplicate success callback ignored", zap.String("payment_id", current.ID))
		return &Result{Success: true, Message: "Payment already completed"}, nil
	}

	payment, err := tx.UpdatePaymentStatus(ctx, transactionID, domain.PaymentStatusPaid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Payment not found")
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	booking, err := tx.UpdateBookingStatus(ctx, payment.BookingID, domain.BookingStatusComplete)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Booking not found")
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	invoiceData := domain.NewInvoiceData(payment, booking)
	pdf, err := s.renderer.Render(ctx, invoiceData)
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}

	uploaded, err := s.uploader.Upload(ctx, pdf, invoiceFolder)
	if err != nil {
		return nil, domain.Internal("Error uploading invoice").WithCause(err)
	}
	if uploaded == nil || uploaded.URL == "" {
		return nil, domain.Internal("Error uploading invoice")
	}

	if err := tx.SetInvoiceURL(ctx, payment.ID, uploaded.URL); err != nil {
		return nil, fmt.Errorf("save invoice url: %w", err)
	}

	if err := s.mailer.Send(ctx, email.Message{
		To:           booking.User.Email,
		Subject:      "Your Booking Invoice",
		TemplateName: "invoice",
		TemplateData: invoiceData,
		Attachments: []email.Attachment{
			{Filename: "invoice.pdf", Content: pdf, ContentType: "application/pdf"},
		},
	}); err != nil {
		return nil, fmt.Errorf("send invoice email: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	payment.InvoiceURL = &uploaded.URL
	logger.Info("payment completed",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", payment.BookingID),
		zap.String("invoice_url", uploaded.URL))

	if s.cache != nil {
		if err := s.cache.SetInvoiceURL(ctx, payment.ID, uploaded.URL); err != nil {
			logger.Warn("cache invoice url", zap.Error(err))
		}
	}
	s.publish(ctx, kafka.EventPaymentSucceeded, payment, booking)

	return &Result{Success: true, Message: "Payment Completed Successfully"}, nil
}

func (s *PaymentService) FailPayment(ctx context.Context, transactionID string) (result *Result, err error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.FailPayment", trace.WithAttributes(attribute.String("transaction.id", transactionID)))
	defer func() { s.finish(span, "fail", err) }()

	return s.closePayment(ctx, span, transactionID, domain.PaymentStatusFailed, domain.BookingStatusFailed, kafka.EventPaymentFailed, "Payment Failed")
}

func (s *PaymentService) CancelPayment(ctx context.Context, transactionID string) (result *Result, err error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CancelPayment", trace.WithAttributes(attribute.String("transaction.id", transactionID)))
	defer func() { s.finish(span, "cancel", err) }()

	return s.closePayment(ctx, span, transactionID, domain.PaymentStatusCancelled, domain.BookingStatusCancel, kafka.EventPaymentCancelled, "Payment Cancelled")
}

// closePayment moves a payment and its booking to a terminal non-success
// status. An unknown transaction id commits nothing and is not an error.
func (s *PaymentService) closePayment(
	ctx context.Context,
	span trace.Span,
	transactionID string,
	paymentStatus domain.PaymentStatus,
	bookingStatus domain.BookingStatus,
	eventType string,
	message string,
) (*Result, error) {
	logger := s.logger.With(zap.String("transaction_id", transactionID), zap.String("trace_id", logging.TraceID(span)))

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	payment, err := tx.UpdatePaymentStatus(ctx, transactionID, paymentStatus)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	var booking *domain.BookingDetails
	if payment != nil {
		booking, err = tx.UpdateBookingStatus(ctx, payment.BookingID, bookingStatus)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("update booking status: %w", err)
			}
			logger.Warn("payment references a missing booking", zap.String("booking_id", payment.BookingID))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	if payment == nil {
		logger.Info("no payment for gateway callback", zap.String("status", string(paymentStatus)))
	} else {
		logger.Info("payment closed", zap.String("payment_id", payment.ID), zap.String("status", string(paymentStatus)))
		s.publish(ctx, eventType, payment, booking)
	}

	return &Result{Success: false, Message: message}, nil
}

func (s *PaymentService) GetInvoiceDownloadURL(ctx context.Context, paymentID string) (url string, err error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.GetInvoiceDownloadURL", trace.WithAttributes(attribute.String("payment.id", paymentID)))
	defer func() { s.finish(span, "invoice", err) }()

	if s.cache != nil {
		cached, err := s.cache.GetInvoiceURL(ctx, paymentID)
		if err != nil {
			s.logger.Warn("read invoice url cache", zap.String("payment_id", paymentID), zap.Error(err))
		} else if cached != "" {
			return cached, nil
		}
	}

	payment, err := s.store.GetPaymentByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.NotFound("Payment not found")
		}
		return "", fmt.Errorf("get payment: %w", err)
	}
	if !payment.HasInvoice() {
		return "", domain.NotFound("No invoice found")
	}

	if s.cache != nil {
		if err := s.cache.SetInvoiceURL(ctx, paymentID, *payment.InvoiceURL); err != nil {
			s.logger.Warn("cache invoice url", zap.String("payment_id", paymentID), zap.Error(err))
		}
	}
	return *payment.InvoiceURL, nil
}

// publish is best effort: the state change is already committed.
func (s *PaymentService) publish(ctx context.Context, eventType string, payment *domain.Payment, booking *domain.BookingDetails) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.NewPaymentEvent(eventType, payment, booking)
	if err := s.producer.Publish(ctx, s.eventsTopic, payment.TransactionID, event); err != nil {
		s.logger.Warn("publish payment event",
			zap.String("event_type", eventType),
			zap.String("transaction_id", payment.TransactionID),
			zap.Error(err))
	}
}

func (s *PaymentService) finish(span trace.Span, operation string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.RecordReconciliation(operation, err)
	span.End()
}

var _ PaymentUseCase = (*PaymentService)(nil)
