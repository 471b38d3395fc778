package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lodgr/internal/data/entity"
	"lodgr/internal/data/repository"
	"lodgr/internal/dto/request"
	"lodgr/internal/dto/response"
	"lodgr/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService handles both /bookings and /properties/{id}/bookings. A
// non-empty scopePropertyID restricts every call to that property.
type BookingService interface {
	// Public endpoints
	ListBookings(ctx context.Context, scopePropertyID string, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBooking(ctx context.Context, scopePropertyID, bookingID string) (*response.BookingResponse, error)

	// Protected
	CreateBooking(ctx context.Context, scopePropertyID string, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, scopePropertyID, bookingID string, userID uuid.UUID, req *request.UpdateBookingRequest, full bool) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, scopePropertyID, bookingID string, userID uuid.UUID) error
}

type bookingService struct {
	repo       *repository.Repository
	dispatcher notification.Dispatcher
	log        *zap.Logger
}

func NewBookingService(repo *repository.Repository, dispatcher notification.Dispatcher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:       repo,
		dispatcher: dispatcher,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) ListBookings(ctx context.Context, scopePropertyID string, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.BookingFilter{}
	if req.Status != nil {
		status := entity.BookingStatus(*req.Status)
		filter.Status = &status
	}
	if req.PropertyID != nil {
		id := uuid.MustParse(*req.PropertyID)
		filter.PropertyID = &id
	}
	if req.UserID != nil {
		id := uuid.MustParse(*req.UserID)
		filter.UserID = &id
	}
	if req.StartDate != nil {
		date, _ := time.Parse(request.DateLayout, *req.StartDate)
		filter.StartDate = &date
	}
	if req.EndDate != nil {
		date, _ := time.Parse(request.DateLayout, *req.EndDate)
		filter.EndDate = &date
	}

	if scopePropertyID != "" {
		property, err := s.findProperty(ctx, scopePropertyID)
		if err != nil {
			return nil, err
		}
		filter.PropertyID = &property.ID
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, response.BookingToResponse(booking))
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *bookingService) GetBooking(ctx context.Context, scopePropertyID, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, scopePropertyID, bookingID)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, scopePropertyID string, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	var property *entity.Property
	var err error
	switch {
	case scopePropertyID != "":
		property, err = s.findProperty(ctx, scopePropertyID)
		if err != nil {
			return nil, err
		}
	case req.PropertyID != "":
		property, err = s.repo.Property.FindByID(ctx, uuid.MustParse(req.PropertyID))
		if err != nil {
			return nil, fmt.Errorf("find property %s: %w", req.PropertyID, err)
		}
		if property == nil {
			return nil, fieldError("PropertyID", "Property does not exist")
		}
	default:
		return nil, fieldError("PropertyID", "This field is required")
	}

	startDate, endDate, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	status := entity.BookingStatusCreated
	if req.Status != "" {
		status = entity.BookingStatus(req.Status)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PropertyID: property.ID,
		UserID:     userID,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalPrice: req.TotalPrice,
		Status:     status,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		// property deleted between lookup and insert
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, fieldError("PropertyID", "Property does not exist")
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("property_id", property.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("total_price", booking.TotalPrice))

	s.notifyBooker(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, scopePropertyID, bookingID string, userID uuid.UUID, req *request.UpdateBookingRequest, full bool) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if full && !req.Complete() {
		return nil, fieldError("body", "PUT requires start_date, end_date, total_price and status")
	}

	booking, err := s.findBooking(ctx, scopePropertyID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %s belongs to another user: %w", bookingID, ErrForbidden)
	}

	if req.PropertyID != nil && scopePropertyID == "" {
		property, err := s.repo.Property.FindByID(ctx, uuid.MustParse(*req.PropertyID))
		if err != nil {
			return nil, fmt.Errorf("find property %s: %w", *req.PropertyID, err)
		}
		if property == nil {
			return nil, fieldError("PropertyID", "Property does not exist")
		}
		booking.PropertyID = property.ID
	}

	start := booking.StartDate.Format(request.DateLayout)
	end := booking.EndDate.Format(request.DateLayout)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	booking.StartDate, booking.EndDate, err = parseStay(start, end)
	if err != nil {
		return nil, err
	}

	if req.TotalPrice != nil {
		booking.TotalPrice = *req.TotalPrice
	}
	if req.Status != nil {
		booking.Status = entity.BookingStatus(*req.Status)
	}
	booking.UpdatedAt = time.Now()

	if err := s.repo.Booking.Update(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, scopePropertyID, bookingID string, userID uuid.UUID) error {
	booking, err := s.findBooking(ctx, scopePropertyID, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return fmt.Errorf("booking %s belongs to another user: %w", bookingID, ErrForbidden)
	}

	if err := s.repo.Booking.Delete(ctx, booking.ID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
		}
		return fmt.Errorf("delete booking: %w", err)
	}

	s.log.Info("Booking deleted", zap.String("booking_id", bookingID))
	return nil
}

// notifyBooker enqueues a confirmation when the booker has an email address.
// Failures are logged only; the booking is already stored.
func (s *bookingService) notifyBooker(ctx context.Context, booking *entity.Booking) {
	user, err := s.repo.User.FindByID(ctx, booking.UserID)
	if err != nil {
		s.log.Warn("Failed to load booker for confirmation",
			zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return
	}
	if user == nil || user.Email == "" {
		return
	}

	if err := s.dispatcher.EnqueueBookingConfirmation(ctx, booking.ID); err != nil {
		s.log.Error("Failed to enqueue booking confirmation",
			zap.Error(err), zap.String("booking_id", booking.ID.String()))
	}
}

func (s *bookingService) findProperty(ctx context.Context, propertyID string) (*entity.Property, error) {
	id, err := parseID("property", propertyID)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", propertyID, err)
	}
	if property == nil {
		return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}
	return property, nil
}

func (s *bookingService) findBooking(ctx context.Context, scopePropertyID, bookingID string) (*entity.Booking, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, ErrNotFound)
	}
	if scopePropertyID != "" {
		propertyID, err := parseID("property", scopePropertyID)
		if err != nil {
			return nil, err
		}
		if booking.PropertyID != propertyID {
			return nil, fmt.Errorf("booking %s not under property %s: %w", bookingID, scopePropertyID, ErrNotFound)
		}
	}

	return booking, nil
}

func parseStay(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(request.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fieldError("StartDate", "Must match format 2006-01-02")
	}
	endDate, err := time.Parse(request.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fieldError("EndDate", "Must match format 2006-01-02")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, fieldError("EndDate", "Must not be before start_date")
	}
	return startDate, endDate, nil
}
