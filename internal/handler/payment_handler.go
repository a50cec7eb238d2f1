package handler

import (
	"encoding/json"
	"net/http"

	"kiranakart/internal/middleware"
	"kiranakart/internal/model"
	"kiranakart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// CreateIntent handles POST /api/payments/create-order requests.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.", h.logger)
		return
	}

	var req model.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Valid orderId is required.", h.logger)
		return
	}

	intent, err := h.service.CreateIntent(r.Context(), claims.UserID, orderID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	intent.Success = true
	writeJSON(w, http.StatusOK, intent, h.logger)
}

// Verify handles POST /api/payments/verify requests.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.", h.logger)
		return
	}

	var req model.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	order, err := h.service.Verify(r.Context(), claims.UserID, claims.Phone, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "order", order, h.logger)
}

// NotifyFailure handles POST /api/payments/notify-failure requests. It always
// answers 200 on reachable orders; the notification result is advisory.
func (h *PaymentHandler) NotifyFailure(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.", h.logger)
		return
	}

	var req model.PaymentFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.", h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Valid orderId is required.", h.logger)
		return
	}

	res, err := h.service.NotifyFailure(r.Context(), claims.UserID, orderID, claims.Phone, req.FailureMessage)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	body := map[string]interface{}{"success": true}
	switch {
	case res.Skipped:
		body["whatsapp"] = "skipped"
		body["reason"] = "no_phone"
	case res.Err != nil:
		body["whatsapp"] = "failed"
		body["error"] = res.Err.Error()
	default:
		body["whatsapp"] = "sent"
	}
	writeJSON(w, http.StatusOK, body, h.logger)
}
