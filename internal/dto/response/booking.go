package response

import (
	"time"

	"lodgr/internal/data/entity"
)

type BookingResponse struct {
	ID         string               `json:"id"`
	PropertyID string               `json:"property_id"`
	UserID     string               `json:"user_id"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	TotalPrice float64              `json:"total_price"`
	Status     entity.BookingStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         booking.ID.String(),
		PropertyID: booking.PropertyID.String(),
		UserID:     booking.UserID.String(),
		StartDate:  booking.StartDate.Format("2006-01-02"),
		EndDate:    booking.EndDate.Format("2006-01-02"),
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		CreatedAt:  booking.CreatedAt,
		UpdatedAt:  booking.UpdatedAt,
	}
}
