package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lodgr/internal/data/entity"
	"lodgr/internal/data/repository"
	"lodgr/internal/dto/response"
	"lodgr/internal/gateway"
	"lodgr/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway is the subset of the Chapa client the payment flow needs.
type PaymentGateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResult, error)
	Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error)
}

// PaymentService drives a booking payment through pending to completed or
// failed. There is no way back from failed.
type PaymentService interface {
	InitiatePayment(ctx context.Context, bookingID string, userID uuid.UUID) (*response.InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, txRef string) (*response.VerifyPaymentResponse, error)
}

type paymentService struct {
	repo       *repository.Repository
	gateway    PaymentGateway
	dispatcher notification.Dispatcher
	log        *zap.Logger
}

func NewPaymentService(
	repo *repository.Repository,
	gw PaymentGateway,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:       repo,
		gateway:    gw,
		dispatcher: dispatcher,
		log:        log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) InitiatePayment(ctx context.Context, bookingID string, userID uuid.UUID) (*response.InitiatePaymentResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	// Only the booker may pay; anyone else sees the booking as missing.
	booking, err := s.repo.Booking.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}

	existing, err := s.repo.Payment.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("check payment for booking %s: %w", bookingID, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyInitiated)
	}

	payer, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find payer %s: %w", userID.String(), err)
	}

	gwReq := gateway.InitiateRequest{
		BookingID: booking.ID.String(),
		Amount:    booking.TotalPrice,
	}
	if payer != nil {
		gwReq.Email = payer.Email
		gwReq.FirstName = payer.DisplayName()
		if payer.Phone != nil {
			gwReq.Phone = *payer.Phone
		}
	}

	result, err := s.gateway.Initiate(ctx, gwReq)
	if err != nil {
		s.log.Error("Gateway initiate failed",
			zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("initiate booking %s: %v: %w", bookingID, err, ErrGateway)
	}
	if result == nil {
		return nil, fmt.Errorf("initiate booking %s: empty gateway response: %w", bookingID, ErrGateway)
	}
	if !result.Succeeded() {
		s.log.Warn("Gateway rejected initiate",
			zap.String("booking_id", bookingID),
			zap.String("status", result.Status),
			zap.String("message", result.Message))
		return nil, fmt.Errorf("initiate booking %s: gateway status %q: %w", bookingID, result.Status, ErrGateway)
	}

	now := time.Now()
	payment := &entity.Payment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID:     booking.ID,
		Amount:        booking.TotalPrice,
		TransactionID: result.Data.TxRef,
		Status:        entity.PaymentStatusPending,
		ChapaResponse: result.Raw,
	}

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		// A concurrent initiate won the race between the check and the insert.
		if errors.Is(err, repository.ErrPaymentExists) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyInitiated)
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("Payment initiated",
		zap.String("booking_id", bookingID),
		zap.String("transaction_id", payment.TransactionID),
		zap.Float64("amount", payment.Amount))

	return &response.InitiatePaymentResponse{
		Status:        gateway.StatusSuccess,
		CheckoutURL:   result.Data.CheckoutURL,
		TransactionID: payment.TransactionID,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, txRef string) (*response.VerifyPaymentResponse, error) {
	if txRef == "" {
		return nil, fmt.Errorf("transaction reference required: %w", ErrMissingParameter)
	}

	payment, err := s.repo.Payment.FindByTransactionID(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("find payment %s: %w", txRef, err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", txRef, ErrNotFound)
	}

	// Settled payments are terminal; report them as stored.
	if payment.Status != entity.PaymentStatusPending {
		s.log.Info("Payment already settled",
			zap.String("transaction_id", txRef),
			zap.String("status", string(payment.Status)))
		return &response.VerifyPaymentResponse{Status: string(payment.Status)}, nil
	}

	// A call that fails outright is treated like an absent response.
	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		s.log.Warn("Gateway verify failed", zap.Error(err), zap.String("transaction_id", txRef))
		result = nil
	}

	if !result.Succeeded() {
		if err := s.repo.Payment.UpdateStatus(ctx, payment.ID, entity.PaymentStatusFailed); err != nil {
			if errors.Is(err, repository.ErrPaymentSettled) {
				return s.settledStatus(ctx, txRef)
			}
			return nil, fmt.Errorf("mark payment %s failed: %w", txRef, err)
		}

		s.log.Info("Payment failed", zap.String("transaction_id", txRef))
		return &response.VerifyPaymentResponse{Status: string(entity.PaymentStatusFailed)}, nil
	}

	if err := s.repo.Payment.UpdateStatusAndResponse(ctx, payment.ID, entity.PaymentStatusCompleted, result.Raw); err != nil {
		if errors.Is(err, repository.ErrPaymentSettled) {
			return s.settledStatus(ctx, txRef)
		}
		return nil, fmt.Errorf("mark payment %s completed: %w", txRef, err)
	}

	if err := s.dispatcher.EnqueueBookingConfirmation(ctx, payment.BookingID); err != nil {
		s.log.Error("Failed to enqueue booking confirmation",
			zap.Error(err), zap.String("booking_id", payment.BookingID.String()))
	}

	s.log.Info("Payment completed",
		zap.String("transaction_id", txRef),
		zap.String("booking_id", payment.BookingID.String()))

	return &response.VerifyPaymentResponse{Status: string(entity.PaymentStatusCompleted)}, nil
}

// settledStatus reports the stored status of a payment that a concurrent
// verify settled between the lookup and the update.
func (s *paymentService) settledStatus(ctx context.Context, txRef string) (*response.VerifyPaymentResponse, error) {
	payment, err := s.repo.Payment.FindByTransactionID(ctx, txRef)
	if err != nil {
		return nil, fmt.Errorf("reload payment %s: %w", txRef, err)
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", txRef, ErrNotFound)
	}

	s.log.Info("Payment settled concurrently",
		zap.String("transaction_id", txRef),
		zap.String("status", string(payment.Status)))
	return &response.VerifyPaymentResponse{Status: string(payment.Status)}, nil
}
