package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	countryhandler "countryapi/internal/country/handler"
	countrymetrics "countryapi/internal/country/metrics"
	"countryapi/internal/country/render"
	countryservice "countryapi/internal/country/service"
	"countryapi/internal/country/sources"
	"countryapi/internal/country/store"
	"countryapi/internal/platform/config"
	"countryapi/internal/platform/httpserver"
	"countryapi/internal/platform/logger"
	"countryapi/internal/platform/metrics"
	"countryapi/internal/platform/postgres"
	"countryapi/internal/platform/redis"
	httptransport "countryapi/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies, serves the router and drains background renders
// on shutdown. Business logic lives in internal/country.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	registry := metrics.New()
	countryMetrics := countrymetrics.New(registry)

	sourceOpts := []sources.Option{sources.WithTimeout(cfg.Sources.Timeout)}
	countryClient := sources.NewCountryClient(cfg.Sources.CountriesURL, sourceOpts...)
	var rateClient sources.RateFetcher = sources.NewRateClient(cfg.Sources.RatesURL, sourceOpts...)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			_ = redisClient.Close()
		}()
		rateClient = sources.NewCachedRateClient(rateClient, redisClient, cfg.Redis.RatesTTL, log)
		log.Info("rate cache enabled", "ttl", cfg.Redis.RatesTTL.String())
	}

	images := render.NewPNGRenderer(cfg.Rendering.ImagePath)
	renderer := render.NewAsync(images,
		render.WithTimeout(cfg.Rendering.Timeout),
		render.WithLogger(log),
		render.WithMetrics(countryMetrics),
	)
	defer renderer.Wait()

	svc, err := countryservice.New(countryClient, rateClient, store.NewPostgres(db),
		countryservice.WithLogger(log),
		countryservice.WithMetrics(countryMetrics),
		countryservice.WithRenderer(renderer),
		countryservice.WithImageSource(images),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Options{
		Logger:      log,
		Metrics:     registry.Handler(),
		CORSOrigins: cfg.CORSOrigins,
	}, countryhandler.New(svc, log))

	srv := httpserver.New(cfg.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting countryapi", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
