package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/viewstore"
	"go-chi-calculator/internal/web"
)

// maxRequestBytes bounds every request body. The largest legitimate body is a
// full batch.
const maxRequestBytes = 64 << 10

// Options configures NewRouter.
type Options struct {
	Views    *viewstore.Store
	Gatherer prometheus.Gatherer
	DarkMode bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxRequestBytes))
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler(opts.Gatherer))

	web.NewHandler(opts.Views, opts.DarkMode).RegisterRoutes(r)

	return r
}
