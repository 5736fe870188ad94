package handler

import (
	"encoding/json"
	"net/http"

	"joulaa/internal/checkout"
	"joulaa/internal/model"

	"github.com/rs/zerolog"
)

// QuoteHandler prices a cart before checkout so the storefront can show the
// shipping cost and total the order service will later verify.
type QuoteHandler struct {
	pricer checkout.Pricer
	logger zerolog.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(pricer checkout.Pricer, logger zerolog.Logger) *QuoteHandler {
	return &QuoteHandler{
		pricer: pricer,
		logger: logger.With().Str("handler", "quote").Logger(),
	}
}

type quoteRequest struct {
	CartItems []model.CartItem `json:"cartItems"`
}

// Quote handles POST /api/checkout-quote requests.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if len(req.CartItems) == 0 {
		writeDomainError(w, model.ErrEmptyCart, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.pricer.QuoteItems(req.CartItems))
}
