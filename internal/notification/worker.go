package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lodgr/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type PropertyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
}

// Lookups are the read paths the worker needs to render a confirmation.
type Lookups struct {
	Bookings   BookingFinder
	Users      UserFinder
	Properties PropertyFinder
}

// errSkip marks tasks that can never succeed and must not be retried.
var errSkip = errors.New("task skipped")

const (
	defaultMaxAttempts  = 5
	defaultRetryBackoff = 5 * time.Second
	maxRetryDelay       = 5 * time.Minute
)

// Worker drains the queue and delivers confirmation mail. Failed deliveries
// are pushed back with an incremented attempt counter until maxAttempts, each
// retry delayed twice as long as the one before.
type Worker struct {
	queue        Queue
	lookups      Lookups
	mailer       Mailer
	maxAttempts  int
	idleBackoff  time.Duration
	retryBackoff time.Duration
	now          func() time.Time
	log          *zap.Logger
}

func NewWorker(queue Queue, lookups Lookups, mailer Mailer, maxAttempts int, log *zap.Logger) *Worker {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Worker{
		queue:       queue,
		lookups:     lookups,
		mailer:      mailer,
		maxAttempts:  maxAttempts,
		idleBackoff:  time.Second,
		retryBackoff: defaultRetryBackoff,
		now:          time.Now,
		log:          log.With(zap.String("component", "worker")),
	}
}

// retryDelay is retryBackoff doubled per earlier failure, capped at
// maxRetryDelay.
func (w *Worker) retryDelay(attempts int) time.Duration {
	delay := w.retryBackoff
	for i := 1; i < attempts && delay < maxRetryDelay; i++ {
		delay *= 2
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Notification worker started", zap.Int("max_attempts", w.maxAttempts))
	defer w.log.Info("Notification worker stopped")

	for {
		task, err := w.queue.Dequeue(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			w.log.Error("Failed to dequeue task", zap.Error(err))
			select {
			case <-time.After(w.idleBackoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		if task == nil {
			continue
		}

		if wait := task.NotBefore.Sub(w.now()); wait > 0 {
			w.postpone(ctx, *task, wait)
			continue
		}

		w.process(ctx, *task)
	}
}

// postpone puts a task that is not yet due back on the queue and pauses so a
// lone delayed task does not spin the loop.
func (w *Worker) postpone(ctx context.Context, task Task, wait time.Duration) {
	// The task is already off the queue; shutdown must not lose it.
	if err := w.queue.Enqueue(context.WithoutCancel(ctx), task); err != nil {
		w.log.Error("Failed to requeue delayed task",
			zap.Error(err), zap.String("booking_id", task.BookingID.String()))
		return
	}
	if wait > w.idleBackoff {
		wait = w.idleBackoff
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

func (w *Worker) process(ctx context.Context, task Task) {
	log := w.log.With(
		zap.String("type", string(task.Type)),
		zap.String("booking_id", task.BookingID.String()),
		zap.Int("attempts", task.Attempts),
	)

	err := w.handle(ctx, task)
	switch {
	case err == nil:
		log.Info("Task delivered")
	case errors.Is(err, errSkip):
		log.Warn("Task dropped", zap.Error(err))
	default:
		task.Attempts++
		if task.Attempts >= w.maxAttempts {
			log.Error("Task dropped after max attempts", zap.Error(err))
			return
		}
		delay := w.retryDelay(task.Attempts)
		task.NotBefore = w.now().Add(delay)
		if qErr := w.queue.Enqueue(ctx, task); qErr != nil {
			log.Error("Failed to requeue task", zap.Error(err), zap.NamedError("queue_error", qErr))
			return
		}
		log.Warn("Task failed, requeued", zap.Error(err), zap.Duration("retry_in", delay))
	}
}

func (w *Worker) handle(ctx context.Context, task Task) error {
	if task.Type != TaskBookingConfirmation {
		return fmt.Errorf("unknown task type %q: %w", task.Type, errSkip)
	}

	booking, err := w.lookups.Bookings.FindByID(ctx, task.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return fmt.Errorf("booking %s not found: %w", task.BookingID.String(), errSkip)
	}

	user, err := w.lookups.Users.FindByID(ctx, booking.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		return fmt.Errorf("no recipient for booking %s: %w", booking.ID.String(), errSkip)
	}

	property, err := w.lookups.Properties.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	if property == nil {
		return fmt.Errorf("property %s not found: %w", booking.PropertyID.String(), errSkip)
	}

	return w.mailer.Send(ctx, RenderBookingConfirmation(user, property, booking))
}

// RenderBookingConfirmation builds the plain-text confirmation mail.
func RenderBookingConfirmation(user *entity.User, property *entity.Property, booking *entity.Booking) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", user.DisplayName())
	fmt.Fprintf(&b, "Your booking at %s (%s) is recorded.\n\n", property.Name, property.Location)
	fmt.Fprintf(&b, "Booking ID: %s\n", booking.ID.String())
	fmt.Fprintf(&b, "Check-in:   %s\n", booking.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Check-out:  %s\n", booking.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total:      %.2f\n", booking.TotalPrice)
	fmt.Fprintf(&b, "Status:     %s\n\n", booking.Status)
	b.WriteString("Thank you for booking with Lodgr.\n")

	return Message{
		To:      user.Email,
		Subject: "Booking confirmation: " + property.Name,
		Body:    b.String(),
	}
}
