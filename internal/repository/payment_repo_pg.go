package repository

import (
	"context"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, booking_id, transaction_id, amount, status, invoice_url, created_at, updated_at`

type PGPaymentRepository struct {
	db querier
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.BookingID, &p.TransactionID, &p.Amount, &p.Status, &p.InvoiceURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PGPaymentRepository) GetPaymentByID(ctx context.Context, id string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
}

func (r *PGPaymentRepository) GetPaymentByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id=$1`, bookingID))
}

func (r *PGPaymentRepository) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id=$1 FOR UPDATE`, transactionID))
}

func (r *PGPaymentRepository) UpdatePaymentStatus(ctx context.Context, transactionID string, status domain.PaymentStatus) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE transaction_id=$2 RETURNING `+paymentColumns, status, transactionID))
}

func (r *PGPaymentRepository) SetInvoiceURL(ctx context.Context, paymentID, url string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE payments SET invoice_url=$1, updated_at=now() WHERE id=$2`, url, paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
