package wire

import (
	"net/http"

	"lodgr/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	paymentHandler *adaptor.PaymentHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/bookings", func(r chi.Router) {
		wireBookingCRUD(r, bookingHandler, auth)

		// POST /bookings/{id}/initiate - start a Chapa checkout for the booking
		r.With(auth).Post("/{id}/initiate", paymentHandler.InitiatePayment)
	})
}

// wireBookingCRUD is shared by /bookings and /properties/{property_id}/bookings.
func wireBookingCRUD(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/", bookingHandler.ListBookings)
	r.Get("/{id}", bookingHandler.GetBooking)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/", bookingHandler.CreateBooking)
		r.Put("/{id}", bookingHandler.ReplaceBooking)
		r.Patch("/{id}", bookingHandler.PatchBooking)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
