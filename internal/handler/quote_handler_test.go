package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"joulaa/internal/checkout"
	"joulaa/internal/config"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPricer() checkout.Pricer {
	return checkout.NewPricer(config.ShippingConfig{
		FlatRate:      decimal.RequireFromString("5.99"),
		FreeThreshold: decimal.NewFromInt(50),
	})
}

func TestQuoteHandler_Quote(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Flat rate below threshold", func(t *testing.T) {
		h := NewQuoteHandler(testPricer(), logger)

		body := bytes.NewBufferString(`{"cartItems": [{"id": "P001", "name": "Rose Lipstick", "price": 25, "quantity": 1}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/checkout-quote", body)
		rec := httptest.NewRecorder()

		h.Quote(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var quote checkout.Quote
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
		assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(25)))
		assert.True(t, quote.ShippingCost.Equal(decimal.RequireFromString("5.99")))
		assert.True(t, quote.Total.Equal(decimal.RequireFromString("30.99")))
	})

	t.Run("Free shipping above threshold", func(t *testing.T) {
		h := NewQuoteHandler(testPricer(), logger)

		body := bytes.NewBufferString(`{"cartItems": [{"id": "P002", "name": "Serum", "price": 60, "quantity": 1}]}`)
		req := httptest.NewRequest(http.MethodPost, "/api/checkout-quote", body)
		rec := httptest.NewRecorder()

		h.Quote(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var quote checkout.Quote
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
		assert.True(t, quote.ShippingCost.IsZero())
		assert.True(t, quote.Total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("Empty cart", func(t *testing.T) {
		h := NewQuoteHandler(testPricer(), logger)

		body := bytes.NewBufferString(`{"cartItems": []}`)
		req := httptest.NewRequest(http.MethodPost, "/api/checkout-quote", body)
		rec := httptest.NewRecorder()

		h.Quote(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		h := NewQuoteHandler(testPricer(), logger)

		body := bytes.NewBufferString(`{cartItems`)
		req := httptest.NewRequest(http.MethodPost, "/api/checkout-quote", body)
		rec := httptest.NewRecorder()

		h.Quote(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		h := NewQuoteHandler(testPricer(), logger)

		req := httptest.NewRequest(http.MethodGet, "/api/checkout-quote", nil)
		rec := httptest.NewRecorder()

		h.Quote(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
