package adaptor

import (
	"net/http"

	"lodgr/internal/dto/request"
	"lodgr/internal/usecase"
	"lodgr/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookingHandler serves /bookings and /properties/{property_id}/bookings.
// On the nested routes the property_id path parameter scopes every call.
type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// ListBookings handles GET /bookings (public)
// Query: page, per_page, status, property, user, start_date, end_date
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: paginationFromQuery(r),
		Status:           utils.StringPtr(query.Get("status")),
		PropertyID:       utils.StringPtr(query.Get("property")),
		UserID:           utils.StringPtr(query.Get("user")),
		StartDate:        utils.StringPtr(query.Get("start_date")),
		EndDate:          utils.StringPtr(query.Get("end_date")),
	}

	bookings, err := h.service.ListBookings(r.Context(), chi.URLParam(r, "property_id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /bookings/{id} (public)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), chi.URLParam(r, "property_id"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CreateBooking handles POST /bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), chi.URLParam(r, "property_id"), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// ReplaceBooking handles PUT /bookings/{id} (protected, booker only)
func (h *BookingHandler) ReplaceBooking(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// PatchBooking handles PATCH /bookings/{id} (protected, booker only)
func (h *BookingHandler) PatchBooking(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *BookingHandler) update(w http.ResponseWriter, r *http.Request, full bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), chi.URLParam(r, "property_id"), chi.URLParam(r, "id"), userID, &req, full)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// DeleteBooking handles DELETE /bookings/{id} (protected, booker only)
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(r.Context(), chi.URLParam(r, "property_id"), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.log, err, "delete booking")
		return
	}

	utils.ResponseNoContent(w)
}
