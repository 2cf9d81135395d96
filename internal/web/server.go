package web

import (
	"net/http"
	"time"

	"github.com/fjod/evermarket/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Stores   *StoreHandler
	Products *ProductHandler
	Cart     *CartHandler

	Sessions *auth.SessionManager
	Users    auth.UserRepository

	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/forgot_password", deps.Auth.ForgotPassword)
			r.Post("/reset_password/{token}", deps.Auth.ResetPassword)
		})

		// Catalog browsing is public.
		r.Get("/products", deps.Products.List)
		r.Get("/products/{product_id}", deps.Products.Get)

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(SessionAuth(deps.Sessions, deps.Users))

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", deps.Stores.List)
				r.Post("/", deps.Stores.Create)
				r.Put("/{store_id}", deps.Stores.Update)
				r.Delete("/{store_id}", deps.Stores.Delete)
			})

			r.Post("/products", deps.Products.Create)
			r.Put("/products/{product_id}", deps.Products.Update)
			r.Delete("/products/{product_id}", deps.Products.Delete)
			r.Post("/products/{product_id}/reviews", deps.Products.AddReview)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.ViewCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			})
			r.Post("/checkout", deps.Cart.Checkout)
		})
	})

	return r
}
