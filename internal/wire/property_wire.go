package wire

import (
	"net/http"

	"lodgr/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireProperty mounts /properties together with the reviews and bookings
// nested under a property. Reads are public, writes need a session.
func wireProperty(
	r chi.Router,
	propertyHandler *adaptor.PropertyHandler,
	reviewHandler *adaptor.ReviewHandler,
	bookingHandler *adaptor.BookingHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/properties", func(r chi.Router) {
		r.Get("/", propertyHandler.ListProperties)
		r.With(auth).Post("/", propertyHandler.CreateProperty)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", propertyHandler.GetProperty)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Put("/", propertyHandler.ReplaceProperty)
				r.Patch("/", propertyHandler.PatchProperty)
				r.Delete("/", propertyHandler.DeleteProperty)
			})
		})

		r.Route("/{property_id}/reviews", func(r chi.Router) {
			r.Get("/", reviewHandler.ListReviews)
			r.Get("/{id}", reviewHandler.GetReview)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", reviewHandler.CreateReview)
				r.Put("/{id}", reviewHandler.ReplaceReview)
				r.Patch("/{id}", reviewHandler.PatchReview)
				r.Delete("/{id}", reviewHandler.DeleteReview)
			})
		})

		r.Route("/{property_id}/bookings", func(r chi.Router) {
			wireBookingCRUD(r, bookingHandler, auth)
		})
	})
}
