package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"joulaa/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError resolves a service error to an HTTP status by its domain
// code. Internal details never reach the client.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status = statusForCode(domainErr.Code)
		if domainErr.Code != model.ErrCodeInternalError {
			message = domainErr.Message
		}
	}

	logger.Error().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeEmptyCart,
		model.ErrCodeMissingItemID,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidAmount,
		model.ErrCodeInvalidClientSecret,
		model.ErrCodeTotalMismatch,
		model.ErrCodeMissingPaymentRef,
		model.ErrCodePaymentNotSucceeded:
		return http.StatusBadRequest
	case model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
