package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PGStore struct {
	pool *pgxpool.Pool
	*PGPaymentRepository
	*PGBookingRepository
}

func NewStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{
		pool:                pool,
		PGPaymentRepository: &PGPaymentRepository{db: pool},
		PGBookingRepository: &PGBookingRepository{db: pool},
	}
}

func (s *PGStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return &PGTx{
		tx:                  tx,
		PGPaymentRepository: &PGPaymentRepository{db: tx},
		PGBookingRepository: &PGBookingRepository{db: tx},
	}, nil
}

type PGTx struct {
	tx pgx.Tx
	*PGPaymentRepository
	*PGBookingRepository
}

func (t *PGTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *PGTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

var (
	_ Store = (*PGStore)(nil)
	_ Tx    = (*PGTx)(nil)
)
