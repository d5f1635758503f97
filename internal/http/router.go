package http

import (
	"net/http"
	"time"

	"github.com/UMDhodi/Obsidian/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Products       *ProductHandler
	Cart           *CartHandler
	Consultation   *ConsultationHandler
	Sessions       session.Store
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", cfg.Products.List)
		r.Get("/products/{product_id}", cfg.Products.Get)
		r.Get("/quotes", cfg.Products.Quotes)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Sessions))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddItem)
				r.Patch("/items/{product_id}", cfg.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
				r.Get("/checkout", cfg.Cart.Checkout)
				r.Post("/checkout/pay", cfg.Cart.Pay)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetWishlist)
				r.Post("/{product_id}/toggle", cfg.Cart.ToggleWishlist)
			})

			r.Route("/consultation", func(r chi.Router) {
				r.Get("/", cfg.Consultation.Get)
				r.Post("/", cfg.Consultation.Consult)
			})
		})
	})

	return r
}

// NewHandler wraps the router with OpenTelemetry server spans.
// Incoming W3C traceparent headers are honoured so request logs carry the caller's trace id.
func NewHandler(cfg RouterConfig) http.Handler {
	return otelhttp.NewHandler(NewRouter(cfg), "obsidian-storefront",
		otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)),
	)
}
