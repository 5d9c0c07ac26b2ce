package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/libreton/libreton-api/internal/api/auth"
	"github.com/libreton/libreton-api/internal/api/product"
)

// Config contains the handlers and middleware the router wires together.
type Config struct {
	AuthHandler       *auth.AuthHandler
	ProductHandler    *product.ProductHandler
	SessionMiddleware func(http.Handler) http.Handler
}

// SetupRouter builds the application router. Server-wide middleware
// (request ID, logging, recoverer) is applied in main before mounting this.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check; public
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// API documentation; exempt from the session check
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- Public auth routes ---
	r.Group(func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)
		// Logout reads the token header itself: a missing header is a 400
		// from the handler, not a 401 from the session middleware.
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
	})

	// --- Session-protected routes ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.SessionMiddleware)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.ProductHandler.GetAll)
			r.Post("/", cfg.ProductHandler.Create)
			r.Get("/{id}", cfg.ProductHandler.GetByID)
			r.Put("/{id}", cfg.ProductHandler.Update)
			r.Delete("/{id}", cfg.ProductHandler.Delete)
		})
	})

	return r
}
