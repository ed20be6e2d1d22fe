package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lariosa/stockroom-be/internal/api/handlers"
	"github.com/lariosa/stockroom-be/internal/auth"
	"github.com/lariosa/stockroom-be/internal/services"
	"github.com/lariosa/stockroom-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	authenticator *auth.Authenticator,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	productService services.ProductServiceProvider,
	inventoryService services.InventoryServiceProvider,
	importService services.ImportServiceProvider,
	uploadDir string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, authenticator)
	productHandler := handlers.NewProductHandler(productService, inventoryService, importService, uploadDir)
	systemHandler := handlers.NewSystemHandler()
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Health check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Backend is running..."))
	})

	// Live inventory event feed
	r.Get("/ws", wsHandler.Serve)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authenticator.Middleware()).Get("/me", authHandler.Me)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Use(authenticator.Middleware())

		r.Get("/", productHandler.List)
		r.Post("/", productHandler.Create)
		r.Get("/search", productHandler.Search)
		r.Post("/import", productHandler.Import)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", productHandler.Update)
			r.Delete("/", productHandler.Delete)
			r.Get("/history", productHandler.History)
		})
	})

	r.With(authenticator.Middleware()).Get("/api/system", systemHandler.Get)

	return r
}
