package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewStore(t *testing.T) {
	pool := &pgxpool.Pool{}
	store := NewStore(pool)
	assert.NotNil(t, store)
	assert.NotNil(t, store.PGPaymentRepository)
	assert.NotNil(t, store.PGBookingRepository)
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestDeref(t *testing.T) {
	s := "Dhaka"
	assert.Equal(t, "Dhaka", deref(&s))
	assert.Equal(t, "", deref(nil))
}

func TestMigrationsCreateAllTables(t *testing.T) {
	tables := []string{"users", "tours", "bookings", "payments"}
	assert.Len(t, migrations, len(tables))
	for i, table := range tables {
		assert.Contains(t, migrations[i], "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, migrations[3], "transaction_id TEXT NOT NULL UNIQUE")
}
