package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lodgr/internal/data/entity"
	"lodgr/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrPaymentExists is returned by Create when the booking already has a
// payment or the transaction id is taken.
var ErrPaymentExists = errors.New("payment already exists")

// ErrPaymentSettled is returned by the status updates when the row is no
// longer pending.
var ErrPaymentSettled = errors.New("payment already settled")

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)

	// UpdateStatus writes only the status column of a pending payment.
	UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error
	// UpdateStatusAndResponse writes status and the stored gateway payload of
	// a pending payment.
	UpdateStatusAndResponse(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, chapaResponse json.RawMessage) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, amount, transaction_id, status, chapa_response, created_at, updated_at`

func scanPayment(row scanner) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.TransactionID,
		&payment.Status,
		&payment.ChapaResponse,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, transaction_id, status, chapa_response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.TransactionID,
		payment.Status,
		payment.ChapaResponse,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if database.IsUniqueViolation(err, "") {
		r.log.Warn("Duplicate payment rejected by storage",
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("transaction_id", payment.TransactionID),
		)
		return fmt.Errorf("booking %s: %w", payment.BookingID.String(), ErrPaymentExists)
	}
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment by booking ID %s: %w", bookingID.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by transaction ID",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
		)
		return nil, fmt.Errorf("find payment by transaction ID %s: %w", transactionID, err)
	}

	return payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3`

	result, err := r.db.Exec(ctx, query, paymentID, status, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", paymentID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", paymentID.String(), ErrPaymentSettled)
	}

	return nil
}

func (r *paymentRepository) UpdateStatusAndResponse(ctx context.Context, paymentID uuid.UUID, status entity.PaymentStatus, chapaResponse json.RawMessage) error {
	query := `UPDATE payments SET status = $2, chapa_response = $3, updated_at = NOW() WHERE id = $1 AND status = $4`

	result, err := r.db.Exec(ctx, query, paymentID, status, chapaResponse, entity.PaymentStatusPending)
	if err != nil {
		r.log.Error("Failed to update payment status and response",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", paymentID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", paymentID.String(), ErrPaymentSettled)
	}

	return nil
}
