// Package api assembles the HTTP surface of the companion server.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/api/handlers"
	"github.com/ecaldwell/cipher/internal/api/middleware"
)

// NewRouter wires the handlers into the route tree.
func NewRouter(
	authH *handlers.AuthHandler,
	txH *handlers.TransactionsHandler,
	analysisH *handlers.AnalysisHandler,
	savingsH *handlers.SavingsHandler,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         3600,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/setup", authH.Setup)
			r.Post("/login", authH.Login)
			r.Post("/logout", authH.Logout)
			r.Post("/verify", authH.Verify)
			r.Post("/update-password", authH.UpdatePassword)
			r.Post("/delete-account", authH.DeleteAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", txH.List)
			r.Post("/sync", txH.Sync)
			r.Post("/import", txH.Import)
		})

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/run", analysisH.Run)
			r.Get("/{jobID}", analysisH.Get)
		})

		r.Route("/savings", func(r chi.Router) {
			r.Get("/", savingsH.List)
			r.Post("/", savingsH.Create)
			r.Post("/plan", savingsH.FromPlan)
			r.Patch("/{id}", savingsH.Update)
			r.Delete("/{id}", savingsH.Delete)
			r.Post("/{id}/adjust", savingsH.Adjust)
		})

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			middleware.WriteJSON(w, http.StatusOK, map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
	})

	return r
}
