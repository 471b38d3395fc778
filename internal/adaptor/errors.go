package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"lodgr/internal/dto/response"
	"lodgr/internal/usecase"
	"lodgr/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps service errors to enveloped JSON responses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrAlreadyInitiated),
		errors.Is(err, usecase.ErrMissingParameter),
		errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrGateway):
		log.Error(operation+" failed - gateway", zap.Error(err))
		utils.ResponseBadGateway(w, "Payment gateway error")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// handlePaymentError writes the bare {"error": ...} body used by the
// payment endpoints.
func handlePaymentError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, usecase.ErrMissingParameter):
		code, msg = http.StatusBadRequest, "Transaction reference required"
	case errors.Is(err, usecase.ErrAlreadyInitiated):
		code, msg = http.StatusBadRequest, "Payment already initiated for this booking"
	case errors.Is(err, usecase.ErrNotFound):
		code, msg = http.StatusNotFound, notFoundMessage(operation)
	case errors.Is(err, usecase.ErrGateway):
		code, msg = http.StatusBadGateway, "Failed to initiate payment"
	case errors.Is(err, usecase.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, "Authentication required"
	}

	if code >= http.StatusInternalServerError {
		log.Error(operation+" failed", zap.Error(err), zap.Int("status", code))
	} else {
		log.Warn(operation+" failed", zap.Error(err), zap.Int("status", code))
	}

	utils.WriteJSON(w, code, response.PaymentErrorResponse{Error: msg})
}

func notFoundMessage(operation string) string {
	if operation == "verify payment" {
		return "Payment not found"
	}
	return "Booking not found"
}

func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

// currentUser reads the principal set by the auth middleware and writes a
// 401 when it is missing.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
