package adaptor

import (
	"net/http"

	"lodgr/internal/usecase"
	"lodgr/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PaymentHandler writes flat JSON bodies: {status, checkout_url,
// transaction_id}, {status} or {error}.
type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /bookings/{id}/initiate (protected)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		handlePaymentError(w, h.log, usecase.ErrUnauthorized, "initiate payment")
		return
	}

	resp, err := h.service.InitiatePayment(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handlePaymentError(w, h.log, err, "initiate payment")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// VerifyPayment handles GET /payments/verify?tx_ref=... (public; the gateway
// redirects here)
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.VerifyPayment(r.Context(), r.URL.Query().Get("tx_ref"))
	if err != nil {
		handlePaymentError(w, h.log, err, "verify payment")
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
