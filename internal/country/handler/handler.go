package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"countryapi/internal/country/models"
	dErrors "countryapi/pkg/domain-errors"
	"countryapi/pkg/platform/httputil"
	"countryapi/pkg/requestcontext"
)

// Service defines the interface for country operations.
type Service interface {
	Refresh(ctx context.Context) (*models.RefreshResult, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Country, error)
	GetByName(ctx context.Context, name string) ([]models.Country, error)
	Delete(ctx context.Context, name string) error
	Status(ctx context.Context) (*models.Status, error)
	Image(ctx context.Context) ([]byte, error)
	Ping(ctx context.Context) error
}

// Handler wires country endpoints to the country service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a country handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts country endpoints on the router. /countries/image is
// registered before the {name} pattern so it is never read as a country.
func (h *Handler) Register(r chi.Router) {
	r.Post("/countries/refresh", h.HandleRefresh)
	r.Get("/countries", h.HandleList)
	r.Get("/countries/image", h.HandleImage)
	r.Get("/countries/{name}", h.HandleGet)
	r.Delete("/countries/{name}", h.HandleDelete)
	r.Get("/status", h.HandleStatus)
	r.Get("/healthz", h.HandleHealth)
}

// HandleRefresh handles POST /countries/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	result, err := h.service.Refresh(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "refresh completed",
		"request_id", requestID,
		"countries", len(result.Countries),
		"total_countries", result.Summary.TotalCountries,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toRefreshResponse(result))
}

// HandleList handles GET /countries.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseListFilter(r.URL.Query())
	if err != nil {
		h.logger.InfoContext(ctx, "rejected list query",
			"request_id", requestID,
			"query", r.URL.RawQuery,
		)
		httputil.WriteError(w, err)
		return
	}

	countries, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list countries failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if countries == nil {
		countries = []models.Country{}
	}
	httputil.WriteJSON(w, http.StatusOK, countries)
}

// HandleImage handles GET /countries/image.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.service.Image(ctx)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "read summary image failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleGet handles GET /countries/{name}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	countries, err := h.service.GetByName(ctx, name)
	if err != nil {
		h.logFailure(ctx, "get country failed", name, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, countries)
}

// HandleDelete handles DELETE /countries/{name}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, name); err != nil {
		h.logFailure(ctx, "delete country failed", name, err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "country deleted",
		"request_id", requestcontext.RequestID(ctx),
		"name", name,
	)
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Country deleted successfully"})
}

// HandleStatus handles GET /status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.service.Status(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "status failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// nameParam extracts the decoded {name} path segment, so "United%20States"
// matches the stored "United States".
func (h *Handler) nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid country name"))
		return "", false
	}
	return name, true
}

func (h *Handler) logFailure(ctx context.Context, msg, name string, err error) {
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"name", name,
		"error", err,
	)
}
