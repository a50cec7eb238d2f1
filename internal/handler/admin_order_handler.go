package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kiranakart/internal/middleware"
	"kiranakart/internal/model"
	"kiranakart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminOrderHandler handles back-office order management requests. Routes
// using it sit behind the AdminOnly middleware.
type AdminOrderHandler struct {
	service service.AdminOrderService
	logger  zerolog.Logger
}

// NewAdminOrderHandler creates a new admin order handler.
func NewAdminOrderHandler(service service.AdminOrderService, logger zerolog.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin-order").Logger(),
	}
}

// List handles GET /api/admin/orders requests.
func (h *AdminOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	var status *model.OrderStatus
	if s := q.Get("status"); s != "" {
		st := model.OrderStatus(s)
		status = &st
	}

	result, err := h.service.List(r.Context(), page, limit, status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	result.Success = true
	writeJSON(w, http.StatusOK, result, h.logger)
}

// GetByID handles GET /api/admin/orders/{id} requests.
func (h *AdminOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID format.", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "order", order, h.logger)
}

// UpdateStatus handles PUT /api/admin/orders/{id}/status requests.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.", h.logger)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID format.", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), claims.UserID, orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "order", order, h.logger)
}
