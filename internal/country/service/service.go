package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"countryapi/internal/country/enrich"
	"countryapi/internal/country/metrics"
	"countryapi/internal/country/models"
)

type CountryFetcher interface {
	FetchCountries(ctx context.Context) ([]models.RawCountry, error)
}

type RateFetcher interface {
	FetchRates(ctx context.Context) (models.RateTable, error)
}

type Store interface {
	UpsertAll(ctx context.Context, countries []models.Country) (int64, error)
	Summary(ctx context.Context) (*models.Summary, error)
	Status(ctx context.Context) (*models.Status, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Country, error)
	FindByName(ctx context.Context, name string) ([]models.Country, error)
	DeleteByName(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}

// SummaryRenderer receives the summary after every successful write. Trigger
// must not block on rendering.
type SummaryRenderer interface {
	Trigger(summary models.Summary)
}

// ImageSource returns the last rendered summary image.
type ImageSource interface {
	Read(ctx context.Context) ([]byte, error)
}

// Service orchestrates the refresh pipeline and serves country queries.
type Service struct {
	countries CountryFetcher
	rates     RateFetcher
	store     Store
	engine    *enrich.Engine
	renderer  SummaryRenderer
	images    ImageSource
	logger    *slog.Logger
	metrics   *metrics.Metrics
	refreshes singleflight.Group
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEngine replaces the default merge engine, typically to fix the GDP
// multiplier in tests.
func WithEngine(engine *enrich.Engine) Option {
	return func(s *Service) {
		s.engine = engine
	}
}

func WithRenderer(renderer SummaryRenderer) Option {
	return func(s *Service) {
		s.renderer = renderer
	}
}

func WithImageSource(images ImageSource) Option {
	return func(s *Service) {
		s.images = images
	}
}

// New constructs a Service.
func New(countries CountryFetcher, rates RateFetcher, store Store, opts ...Option) (*Service, error) {
	if countries == nil {
		return nil, errors.New("countries fetcher is required")
	}
	if rates == nil {
		return nil, errors.New("rates fetcher is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}

	s := &Service{
		countries: countries,
		rates:     rates,
		store:     store,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = enrich.NewEngine()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}
