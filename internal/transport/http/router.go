// Package httptransport assembles the public HTTP surface: global middleware,
// operational endpoints and the module handlers.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	dErrors "countryapi/pkg/domain-errors"
	"countryapi/pkg/platform/httputil"
	"countryapi/pkg/platform/middleware/requestid"
	"countryapi/pkg/platform/middleware/requestlog"
	"countryapi/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Options configures NewRouter. A nil Metrics handler leaves /metrics unmounted.
type Options struct {
	Logger      *slog.Logger
	Metrics     http.Handler
	CORSOrigins []string
}

// NewRouter wires middleware in request order (ID, clock, logging, panic
// recovery, CORS) and mounts every registrar on the root router.
func NewRouter(opts Options, registrars ...Registrar) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(requestlog.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
			Error: "Method not allowed",
			Code:  string(dErrors.CodeBadRequest),
		})
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	for _, reg := range registrars {
		reg.Register(r)
	}
	return r
}
