package adaptor

import (
	"lodgr/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Property *PropertyHandler
	Review   *ReviewHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Property: NewPropertyHandler(service.Property, log),
		Review:   NewReviewHandler(service.Review, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, log),
	}
}
