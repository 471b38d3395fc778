package request

const DateLayout = "2006-01-02"

// CreateBookingRequest.PropertyID may be empty when the property comes from
// the nested route.
type CreateBookingRequest struct {
	PropertyID string  `json:"property_id" validate:"omitempty,uuid"`
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	TotalPrice float64 `json:"total_price" validate:"required,gt=0"`
	Status     string  `json:"status,omitempty" validate:"omitempty,oneof=created confirmed cancelled"`
}

type UpdateBookingRequest struct {
	PropertyID *string  `json:"property_id,omitempty" validate:"omitempty,uuid"`
	StartDate  *string  `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string  `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TotalPrice *float64 `json:"total_price,omitempty" validate:"omitempty,gt=0"`
	Status     *string  `json:"status,omitempty" validate:"omitempty,oneof=created confirmed cancelled"`
}

// Complete reports whether a PUT body carries every writable field. The
// property may be omitted on nested routes.
func (r UpdateBookingRequest) Complete() bool {
	return r.StartDate != nil && r.EndDate != nil && r.TotalPrice != nil && r.Status != nil
}

type BookingListRequest struct {
	PaginatedRequest
	Status     *string `validate:"omitempty,oneof=created confirmed cancelled"`
	PropertyID *string `validate:"omitempty,uuid"`
	UserID     *string `validate:"omitempty,uuid"`
	StartDate  *string `validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `validate:"omitempty,datetime=2006-01-02"`
}
