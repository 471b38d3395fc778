package response

import (
	"time"

	"lodgr/internal/data/entity"
)

type PropertyResponse struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func PropertyToResponse(property *entity.Property) PropertyResponse {
	return PropertyResponse{
		ID:          property.ID.String(),
		HostID:      property.HostID.String(),
		Name:        property.Name,
		Description: property.Description,
		Location:    property.Location,
		Price:       property.Price,
		Available:   property.Available,
		CreatedAt:   property.CreatedAt,
		UpdatedAt:   property.UpdatedAt,
	}
}
