package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"topicgen-backend/internal/handlers"
	"topicgen-backend/internal/middleware"
)

func New(
	contentHandler *handlers.ContentHandler,
	generateLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", handlers.Health)

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Content Routes ────
		r.Route("/content", func(r chi.Router) {
			r.With(generateLimiter.Middleware).Post("/generate", contentHandler.Generate)
		})
	})

	return r
}
