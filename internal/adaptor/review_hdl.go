package adaptor

import (
	"net/http"
	"strconv"

	"lodgr/internal/dto/request"
	"lodgr/internal/usecase"
	"lodgr/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// ListReviews handles GET /properties/{property_id}/reviews (public)
// Query: page, per_page, rating, user, search
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ReviewListRequest{
		PaginatedRequest: paginationFromQuery(r),
		UserID:           utils.StringPtr(query.Get("user")),
		Search:           utils.StringPtr(query.Get("search")),
	}
	if raw := query.Get("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Validation failed", map[string]string{"rating": "Must be a number"})
			return
		}
		req.Rating = &rating
	}

	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "property_id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /properties/{property_id}/reviews/{id} (public)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "property_id"), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// CreateReview handles POST /properties/{property_id}/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	review, err := h.service.CreateReview(r.Context(), chi.URLParam(r, "property_id"), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created", review)
}

// ReplaceReview handles PUT /properties/{property_id}/reviews/{id} (protected, reviewer only)
func (h *ReviewHandler) ReplaceReview(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// PatchReview handles PATCH /properties/{property_id}/reviews/{id} (protected, reviewer only)
func (h *ReviewHandler) PatchReview(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request, full bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), chi.URLParam(r, "property_id"), chi.URLParam(r, "id"), userID, &req, full)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /properties/{property_id}/reviews/{id} (protected, reviewer only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "property_id"), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}
