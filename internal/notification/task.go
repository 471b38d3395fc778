package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const TaskBookingConfirmation TaskType = "booking_confirmation"

// Task is the unit stored on the queue. Attempts counts failed deliveries;
// a retried task is not handled before NotBefore.
type Task struct {
	Type       TaskType  `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	NotBefore  time.Time `json:"not_before"`
}

func NewBookingConfirmation(bookingID uuid.UUID) Task {
	return Task{
		Type:       TaskBookingConfirmation,
		BookingID:  bookingID,
		EnqueuedAt: time.Now().UTC(),
	}
}

func (t Task) encode() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode task: %w", err)
	}
	return data, nil
}

func decodeTask(data []byte) (*Task, error) {
	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &t, nil
}
