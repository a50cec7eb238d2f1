package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"kiranakart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

// writeSuccess wraps the payload in the success envelope, keyed by the
// entity name ("order", "orders").
func writeSuccess(w http.ResponseWriter, status int, key string, payload interface{}, logger zerolog.Logger) {
	writeJSON(w, status, map[string]interface{}{"success": true, key: payload}, logger)
}

// writeError writes the uniform error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Success: false, Message: message}, logger)
}

// writeServiceError maps a service error to an HTTP status and writes the
// envelope. Non-domain errors become an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, "Internal server error.", logger)
		return
	}

	writeError(w, statusForCode(domainErr.Code), domainErr.Message, logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeGatewayNotConfigured:
		return http.StatusServiceUnavailable
	case model.ErrCodeValidation,
		model.ErrCodeInsufficientStock,
		model.ErrCodeAlreadyPaid,
		model.ErrCodeCannotCancelPaid,
		model.ErrCodeAmountTooLow,
		model.ErrCodeGatewayRejected,
		model.ErrCodeVerificationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
