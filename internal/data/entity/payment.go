package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is created in pending state by payment initiation and moves to
// completed or failed on verification. There is no transition back.
type Payment struct {
	Base
	BookingID     uuid.UUID       `db:"booking_id"`
	Amount        float64         `db:"amount"`
	TransactionID string          `db:"transaction_id"`
	Status        PaymentStatus   `db:"status"`
	ChapaResponse json.RawMessage `db:"chapa_response"`
}
