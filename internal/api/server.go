// Package api configures and exposes the HTTP server, routes, metrics and
// related middleware for the domain monitoring service.
package api

import (
	"net/http"
	"time"

	"domainmon/internal/api/handler/v1handler"
	"domainmon/internal/config"
	"domainmon/pkg/controller"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options holds configuration for the HTTP server. Zero durations fall back
// to the net/http defaults.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum size of request headers.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions maps the HTTP-related application configuration to server
// Options.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

// Deps carries the handler dependencies.
type Deps struct {
	v1handler.Deps
}

// Router assembles the route tree: the JSON API under /api, Prometheus
// metrics, and pprof. Exported separately from NewServer so tests can drive
// the routes without a listening socket.
func Router(deps Deps, opts Options) http.Handler {
	h := v1handler.New(deps.Deps)

	r := chi.NewRouter()

	r.Handle(opts.MetricsPath, promhttp.Handler())
	r.Handle("/debug/pprof/*", controller.PprofMux())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Get("/domains", h.ListDomains)
			r.Post("/domains", h.AddDomain)
			r.Delete("/domains", h.RemoveDomains)
			r.Post("/domains/bulk", h.BulkAddDomains)
			r.Post("/domains/scan", h.ScanDomains)
		})
	})

	// cors, then access logging around everything
	handler := controller.WithCORS(r)
	handler = controller.WithLogger(handler)

	return handler
}

// NewServer wires up and returns a configured *http.Server serving the
// router with a global request timeout.
func NewServer(deps Deps, opts Options) *http.Server {
	handler := Router(deps, opts)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           http.TimeoutHandler(handler, opts.RequestTimeout, `{"error":"request timed out"}`),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}
}
