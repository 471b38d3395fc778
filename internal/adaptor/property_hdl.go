package adaptor

import (
	"net/http"

	"lodgr/internal/dto/request"
	"lodgr/internal/usecase"
	"lodgr/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	service usecase.PropertyService
	log     *zap.Logger
}

func NewPropertyHandler(service usecase.PropertyService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log.With(zap.String("handler", "property")),
	}
}

// ListProperties handles GET /properties (public)
// Query: page, per_page, available, location, search
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PropertyListRequest{
		PaginatedRequest: paginationFromQuery(r),
		Available:        utils.ParseBoolPtr(query.Get("available")),
		Location:         utils.StringPtr(query.Get("location")),
		Search:           utils.StringPtr(query.Get("search")),
	}

	properties, err := h.service.ListProperties(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// GetProperty handles GET /properties/{id} (public)
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.service.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get property")
		return
	}

	utils.ResponseSuccess(w, "success", property)
}

// CreateProperty handles POST /properties (protected)
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	property, err := h.service.CreateProperty(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create property")
		return
	}

	utils.ResponseCreated(w, "Property created", property)
}

// ReplaceProperty handles PUT /properties/{id} (protected, host only)
func (h *PropertyHandler) ReplaceProperty(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// PatchProperty handles PATCH /properties/{id} (protected, host only)
func (h *PropertyHandler) PatchProperty(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *PropertyHandler) update(w http.ResponseWriter, r *http.Request, full bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	property, err := h.service.UpdateProperty(r.Context(), chi.URLParam(r, "id"), userID, &req, full)
	if err != nil {
		handleServiceError(w, h.log, err, "update property")
		return
	}

	utils.ResponseSuccess(w, "Property updated", property)
}

// DeleteProperty handles DELETE /properties/{id} (protected, host only)
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProperty(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		handleServiceError(w, h.log, err, "delete property")
		return
	}

	utils.ResponseNoContent(w)
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	p := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), utils.DefaultPerPage),
	}
	p.PerPage = p.Limit()
	return p
}
