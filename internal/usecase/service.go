package usecase

import (
	"lodgr/internal/data/repository"
	"lodgr/internal/notification"
	"lodgr/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Property PropertyService
	Review   ReviewService
	Booking  BookingService
	Payment  PaymentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	gw PaymentGateway,
	dispatcher notification.Dispatcher,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Property: NewPropertyService(repo, log),
		Review:   NewReviewService(repo, log),
		Booking:  NewBookingService(repo, dispatcher, log),
		Payment:  NewPaymentService(repo, gw, dispatcher, log),
	}
}
