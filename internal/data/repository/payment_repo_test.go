package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"lodgr/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPaymentRepo(t *testing.T) (PaymentRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPaymentRepository(mock, zap.NewNop()), mock
}

func pendingPayment() *entity.Payment {
	now := time.Now()
	return &entity.Payment{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BookingID:     uuid.New(),
		Amount:        120.00,
		TransactionID: "TX99",
		Status:        entity.PaymentStatusPending,
		ChapaResponse: json.RawMessage(`{"status":"success"}`),
	}
}

func TestPaymentRepo_Create(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	p := pendingPayment()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(p.ID, p.BookingID, p.Amount, p.TransactionID, p.Status, p.ChapaResponse, p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_CreateUniqueViolation(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	p := pendingPayment()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "payments_booking_id_key"})

	err := repo.Create(context.Background(), p)
	assert.ErrorIs(t, err, ErrPaymentExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_CreateOtherError(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	p := pendingPayment()
	dbErr := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(dbErr)

	err := repo.Create(context.Background(), p)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrPaymentExists)
}

func TestPaymentRepo_FindMissingReturnsNil(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	bookingID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE booking_id = $1")).
		WithArgs(bookingID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE transaction_id = $1")).
		WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)

	byBooking, err := repo.FindByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Nil(t, byBooking)

	byTx, err := repo.FindByTransactionID(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, byTx)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateStatusOnlyTouchesStatus(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3")).
		WithArgs(id, entity.PaymentStatusFailed, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), id, entity.PaymentStatusFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateStatusAndResponse(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	id := uuid.New()
	payload := json.RawMessage(`{"status":"success","data":{"tx_ref":"TX99"}}`)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = $2, chapa_response = $3, updated_at = NOW() WHERE id = $1 AND status = $4")).
		WithArgs(id, entity.PaymentStatusCompleted, payload, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatusAndResponse(context.Background(), id, entity.PaymentStatusCompleted, payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepo_UpdateSettledRow(t *testing.T) {
	repo, mock := newPaymentRepo(t)
	id := uuid.New()
	payload := json.RawMessage(`{"status":"success"}`)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = $2, updated_at")).
		WithArgs(id, entity.PaymentStatusFailed, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = $2, chapa_response = $3")).
		WithArgs(id, entity.PaymentStatusCompleted, payload, entity.PaymentStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), id, entity.PaymentStatusFailed)
	assert.ErrorIs(t, err, ErrPaymentSettled)

	err = repo.UpdateStatusAndResponse(context.Background(), id, entity.PaymentStatusCompleted, payload)
	assert.ErrorIs(t, err, ErrPaymentSettled)

	assert.NoError(t, mock.ExpectationsWereMet())
}
