package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/shop-api/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries what NewRouter needs. A nil service leaves its routes
// unregistered; a nil Gatherer leaves /metrics unregistered.
type RouterConfig struct {
	Products ProductService
	Reviews  ReviewService
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)

	if cfg.Products != nil {
		h := NewProductHandler(cfg.Products, log)
		r.Post("/product", h.CreateProduct)
		r.Route("/product/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	}

	if cfg.Reviews != nil {
		h := NewReviewHandler(cfg.Reviews, log)
		r.Route("/review", func(r chi.Router) {
			r.Post("/", h.CreateReview)
			r.Get("/", h.ListReviews)
			r.Put("/", h.UpdateReview)
			r.Delete("/", h.DeleteReviews)
		})
	}

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
