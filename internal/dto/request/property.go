package request

type CreatePropertyRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Location    string  `json:"location" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Available   *bool   `json:"available,omitempty"`
}

// UpdatePropertyRequest is used for both PUT and PATCH. For PUT the handler
// requires every field to be present.
type UpdatePropertyRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,min=1,max=255"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Available   *bool    `json:"available,omitempty"`
}

func (r UpdatePropertyRequest) Complete() bool {
	return r.Name != nil && r.Description != nil && r.Location != nil && r.Price != nil && r.Available != nil
}

type PropertyListRequest struct {
	PaginatedRequest
	Available *bool
	Location  *string
	Search    *string
}
