package handler

import (
	"encoding/json"
	"net/http"

	"joulaa/internal/model"
	"joulaa/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment-side checkout HTTP requests.
type PaymentHandler struct {
	checkout service.CheckoutService
	logger   zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(checkout service.CheckoutService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkout: checkout,
		logger:   logger.With().Str("handler", "payment").Logger(),
	}
}

type createIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type createIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreateIntent handles POST /api/create-payment-intent requests.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	intent, err := h.checkout.CreatePaymentIntent(r.Context(), req.Amount)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, createIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	})
}

type confirmReturnRequest struct {
	ClientSecret string                    `json:"clientSecret"`
	Order        *model.CreateOrderRequest `json:"order,omitempty"`
}

// ConfirmReturn handles POST /api/confirm-return requests, the re-entry
// point after the shopper returns from a processor redirect.
func (h *PaymentHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req confirmReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	result, err := h.checkout.ConfirmReturn(r.Context(), req.ClientSecret, req.Order)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
