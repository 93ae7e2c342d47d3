package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	cartHandler *handler.CartHandler,
	webhookHandler *handler.WebhookHandler,
	users repository.UserRepository,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Outermost first: Recovery -> Logging -> CORS -> APIKeyAuth -> Authenticate
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(apiKey, logger))
	r.Use(middleware.Authenticate(users, logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Post("/api/webhook", webhookHandler.Receive)

	// Catalogue browsing is open; the response is role-aware.
	r.Get("/api/product/get-products", productHandler.List)

	// Cart routes work for guests too, so no RequireUser here.
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartHandler.Get)
		r.Delete("/", cartHandler.Clear)
		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items/{variantId}", cartHandler.UpdateItem)
		r.Delete("/items/{variantId}", cartHandler.RemoveItem)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Post("/api/placeorder", orderHandler.PlaceOrder)
		r.Get("/api/order", orderHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/api/order/stats", orderHandler.Stats)
			r.Patch("/api/order/{id}/status", orderHandler.UpdateStatus)
		})

		r.Get("/api/order/{id}", orderHandler.GetByID)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Post("/api/product/add-product", productHandler.Create)
		r.Patch("/api/product/update-product-title/{id}", productHandler.UpdateTitle)
		r.Patch("/api/product/delete-product/{id}", productHandler.Delete)
		r.Post("/api/product/add-variants/{productId}", productHandler.AddVariants)
		r.Put("/api/product/update-variant/{id}", productHandler.UpdateVariant)
		r.Patch("/api/product/deactivate-variant/{id}", productHandler.DeactivateVariant)
		r.Patch("/api/product/reactivate-variant/{id}", productHandler.ReactivateVariant)
		r.Post("/api/product/upload-products", productHandler.Upload)
	})

	return r
}
