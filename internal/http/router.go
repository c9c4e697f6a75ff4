package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_shop/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Sessions *session.Manager
	Catalog  CatalogService
	Cart     CartService
	Checkout CheckoutService
	Orders   OrderReader
	Auth     AuthService

	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) chi.Router {
	productHandler := NewProductHandler(cfg.Catalog)
	cartHandler := NewCartHandler(cfg.Cart)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout)
	orderHandler := NewOrderHandler(cfg.Orders)
	authHandler := NewAuthHandler(cfg.Auth, cfg.Sessions)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SessionMiddleware(cfg.Sessions))

		r.Get("/products", productHandler.List)
		r.Get("/products/{id}", productHandler.Get)
		r.Get("/categories", productHandler.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items/{id}", cartHandler.AddItem)
			r.Post("/items/{id}/increment", cartHandler.Increment)
			r.Post("/items/{id}/decrement", cartHandler.Decrement)
			r.Delete("/items/{id}", cartHandler.Remove)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Get("/{id}", orderHandler.Get)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
