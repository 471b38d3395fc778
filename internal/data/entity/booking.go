package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusCreated   BookingStatus = "created"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Base
	PropertyID uuid.UUID     `db:"property_id"`
	UserID     uuid.UUID     `db:"user_id"`
	StartDate  time.Time     `db:"start_date"`
	EndDate    time.Time     `db:"end_date"`
	TotalPrice float64       `db:"total_price"`
	Status     BookingStatus `db:"status"`
}

type BookingFilter struct {
	Status     *BookingStatus
	PropertyID *uuid.UUID
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
