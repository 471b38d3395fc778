package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dispatcher hands off booking confirmations for asynchronous delivery.
type Dispatcher interface {
	EnqueueBookingConfirmation(ctx context.Context, bookingID uuid.UUID) error
}

type queueDispatcher struct {
	queue Queue
	log   *zap.Logger
}

func NewDispatcher(queue Queue, log *zap.Logger) Dispatcher {
	return &queueDispatcher{
		queue: queue,
		log:   log.With(zap.String("component", "dispatcher")),
	}
}

func (d *queueDispatcher) EnqueueBookingConfirmation(ctx context.Context, bookingID uuid.UUID) error {
	if err := d.queue.Enqueue(ctx, NewBookingConfirmation(bookingID)); err != nil {
		return fmt.Errorf("enqueue confirmation for booking %s: %w", bookingID.String(), err)
	}

	d.log.Debug("Booking confirmation enqueued", zap.String("booking_id", bookingID.String()))
	return nil
}
