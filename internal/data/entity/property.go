package entity

import "github.com/google/uuid"

type Property struct {
	Base
	HostID      uuid.UUID `db:"host_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Location    string    `db:"location"`
	Price       float64   `db:"price"`
	Available   bool      `db:"available"`
}

// PropertyFilter mirrors the list query parameters; nil fields are ignored.
type PropertyFilter struct {
	Available *bool
	Location  *string
	Search    *string
}
