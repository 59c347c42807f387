// Package httpapi serves the list store and the theme preference over JSON HTTP.
package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the options for NewRouter.
type RouterConfig struct {
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// "*" allows all origins.
	CORSAllowedOrigins string
	// RateLimitPerMinute caps requests per client IP. Zero disables limiting.
	RateLimitPerMinute int
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
}

// NewRouter returns the API routes wrapped in the standard middleware stack:
// request id, panic recovery, access log, real IP, rate limit, CORS and a
// 1 MB body cap.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		loggingMiddleware(h.log),
		middleware.RealIP,
	)
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}
	r.Use(
		corsMiddleware(cfg.CORSAllowedOrigins),
		middleware.RequestSize(1<<20),
	)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.handleListItems)
		r.Post("/", h.handleCreateItem)
		r.Delete("/", h.handleClearItems)
		r.Get("/{id}", h.handleGetItem)
		r.Put("/{id}", h.handleUpdateItem)
		r.Delete("/{id}", h.handleDeleteItem)
	})
	r.Get("/theme", h.handleGetTheme)
	r.Put("/theme", h.handleSetTheme)
	r.Get("/healthz", h.handleHealth)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func corsMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: parseOrigins(allowedOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         300,
	})
}

// parseOrigins splits a comma-separated origins string, trimming spaces.
func parseOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// NewServer returns an *http.Server with the timeouts golist runs with.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
