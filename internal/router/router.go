package router

import (
	"context"
	"net/http"

	"storefront-cart/internal/handler"
	"storefront-cart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Coupon  *handler.CouponHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Verifier       middleware.TokenVerifier
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	AllowedOrigins []string
	DB             Pinger
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS, then authentication on /api
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health check endpoints (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if opts.DB == nil || opts.DB.Ping(r.Context()) != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "error", "message": "postgres unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok", "postgres": "connected"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Verifier, logger))
		if opts.RateLimiter != nil {
			r.Use(middleware.RateLimit(opts.RateLimiter, logger))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.GetAll)
			r.Get("/{id}", h.Product.GetByID)
		})

		r.Route("/carts/{userID}", func(r chi.Router) {
			r.Use(middleware.CartOwner("userID", logger))

			r.Get("/", h.Cart.Get)
			r.Get("/count", h.Cart.Count)
			r.Post("/items", h.Cart.AddItem)
			r.Delete("/items/{lineItemID}", h.Cart.RemoveItem)
			r.Post("/coupon", h.Cart.ApplyCoupon)
			r.Delete("/coupon", h.Cart.RemoveCoupon)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/code/{code}", h.Coupon.GetByCode)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logger))

				r.Get("/", h.Coupon.List)
				r.Post("/", h.Coupon.Create)
				r.Get("/{id}", h.Coupon.GetByID)
				r.Put("/{id}", h.Coupon.Update)
				r.Delete("/{id}", h.Coupon.Delete)
			})
		})
	})

	return r
}
