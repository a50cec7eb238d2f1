package router

import (
	"net/http"

	"kiranakart/internal/handler"
	"kiranakart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	adminOrderHandler *handler.AdminOrderHandler,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Customer order routes
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders", orderHandler.ListMine)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)
	mux.HandleFunc("PUT /api/orders/{id}/cancel", orderHandler.Cancel)

	// Payment routes
	mux.HandleFunc("POST /api/payments/create-order", paymentHandler.CreateIntent)
	mux.HandleFunc("POST /api/payments/verify", paymentHandler.Verify)
	mux.HandleFunc("POST /api/payments/notify-failure", paymentHandler.NotifyFailure)

	// Admin routes sit behind an extra role gate
	adminOnly := middleware.AdminOnly(logger)
	mux.Handle("GET /api/admin/orders", adminOnly(http.HandlerFunc(adminOrderHandler.List)))
	mux.Handle("GET /api/admin/orders/{id}", adminOnly(http.HandlerFunc(adminOrderHandler.GetByID)))
	mux.Handle("PUT /api/admin/orders/{id}/status", adminOnly(http.HandlerFunc(adminOrderHandler.UpdateStatus)))

	// Apply middleware in order: Recovery -> Logging -> CORS -> AuthRequired
	var h http.Handler = mux
	h = middleware.AuthRequired(jwtSecret, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
