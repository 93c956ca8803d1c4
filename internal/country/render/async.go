package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"countryapi/internal/country/metrics"
	"countryapi/internal/country/models"
)

// DefaultTimeout bounds a single background render.
const DefaultTimeout = 10 * time.Second

// AsyncRenderer runs renders in the background. Failures are logged and
// counted but never reach the caller that triggered them.
type AsyncRenderer struct {
	next    Renderer
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

type AsyncOption func(*AsyncRenderer)

func WithTimeout(d time.Duration) AsyncOption {
	return func(a *AsyncRenderer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) AsyncOption {
	return func(a *AsyncRenderer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) AsyncOption {
	return func(a *AsyncRenderer) {
		a.metrics = m
	}
}

// NewAsync wraps next so that Trigger returns immediately.
func NewAsync(next Renderer, opts ...AsyncOption) *AsyncRenderer {
	a := &AsyncRenderer{
		next:    next,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Trigger starts rendering summary in a new goroutine.
func (a *AsyncRenderer) Trigger(summary models.Summary) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.render(summary)
	}()
}

// Wait blocks until every triggered render has finished.
func (a *AsyncRenderer) Wait() {
	a.wg.Wait()
}

func (a *AsyncRenderer) render(summary models.Summary) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	start := time.Now()
	err := a.safeRender(ctx, summary)
	a.metrics.ObserveRender(err, start)
	if err != nil {
		a.logger.Error("summary render failed",
			"error", err,
			"total_countries", summary.TotalCountries,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	a.logger.Info("summary rendered",
		"total_countries", summary.TotalCountries,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (a *AsyncRenderer) safeRender(ctx context.Context, summary models.Summary) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	return a.next.Render(ctx, summary)
}
