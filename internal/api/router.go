// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"opledger/internal/api/handler"
	"opledger/internal/api/middleware"
)

// NewRouter sets up and returns a new HTTP router.
// Everything under /api/v1 sits behind the auth gate; /health does not.
func NewRouter(
	balanceHandler *handler.BalanceHandler,
	recordHandler *handler.RecordHandler,
	authGate *middleware.AuthGate,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))
	r.Use(middleware.CORS)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authGate.Handler)

		r.Route("/balance", func(r chi.Router) {
			r.Get("/", balanceHandler.GetBalance)
			r.Patch("/", balanceHandler.UpdateBalance)
		})

		r.Route("/records", func(r chi.Router) {
			r.Post("/", recordHandler.Create)
			r.Get("/", recordHandler.FindAll)
			r.Get("/{recordID}", recordHandler.FindOne)
			r.Delete("/{recordID}", recordHandler.Remove)
		})
	})

	return r
}
