package router

import (
	"net/http"
	"strings"

	"joulaa/internal/handler"
	"joulaa/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// Storefront routes are open; admin routes sit behind the API key.
func New(
	paymentHandler *handler.PaymentHandler,
	orderHandler *handler.OrderHandler,
	emailHandler *handler.EmailHandler,
	quoteHandler *handler.QuoteHandler,
	adminAPIKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/checkout-quote", quoteHandler.Quote)
	mux.HandleFunc("/api/create-payment-intent", paymentHandler.CreateIntent)
	mux.HandleFunc("/api/confirm-return", paymentHandler.ConfirmReturn)
	mux.HandleFunc("/api/create-order", orderHandler.Create)
	mux.HandleFunc("/api/send-email", emailHandler.Send)

	// Order reads: /api/orders?userId={id} lists a user's history,
	// /api/orders/{id} fetches one order.
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			orderHandler.ListByUser(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/orders/") {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	adminAuth := middleware.APIKeyAuth(adminAPIKey, logger)
	mux.Handle("/api/admin/orders", adminAuth(http.HandlerFunc(orderHandler.GetAll)))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
