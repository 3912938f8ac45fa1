package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/gift-certs/internal/service"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Certificates *service.CertificateService
	Tags         *service.TagService

	// CORSOrigins lists the allowed browser origins. Empty means "*".
	CORSOrigins []string
	// MaxPageSize caps the size query parameter. Zero uses 200.
	MaxPageSize int
}

// NewRouter assembles the chi router with middleware, the catalog routes and
// the health and metrics endpoints.
func NewRouter(deps Deps) http.Handler {
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	maxPageSize := deps.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = defaultMaxPageSize
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Location"},
		MaxAge:         int((5 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(requestMetrics)
		registerCertificateRoutes(r, deps.Certificates, maxPageSize)
		registerTagRoutes(r, deps.Tags)
	})

	return r
}
