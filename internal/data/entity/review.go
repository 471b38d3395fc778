package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	PropertyID uuid.UUID `db:"property_id"`
	UserID     uuid.UUID `db:"user_id"`
	Rating     int       `db:"rating"` // 1-5
	Comment    *string   `db:"comment"`
}

type ReviewFilter struct {
	PropertyID uuid.UUID
	Rating     *int
	UserID     *uuid.UUID
	Search     *string
}
