package wire

import (
	"net/http"

	"lodgr/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, auth func(http.Handler) http.Handler) {
	r.Route("/payments", func(r chi.Router) {
		// GET /payments/verify?tx_ref= - public, Chapa redirects the payer here
		r.Get("/verify", paymentHandler.VerifyPayment)

		// POST /payments/{id}/initiate - same as /bookings/{id}/initiate
		r.With(auth).Post("/{id}/initiate", paymentHandler.InitiatePayment)
	})
}
