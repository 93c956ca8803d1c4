package service

import (
	"context"
	"fmt"
	"time"

	"countryapi/internal/country/metrics"
	"countryapi/internal/country/models"
	"countryapi/internal/country/sources"
	dErrors "countryapi/pkg/domain-errors"
	"countryapi/pkg/requestcontext"
)

const refreshKey = "refresh"

// Refresh fetches both sources, merges them, upserts the result and kicks off
// a summary render. Concurrent calls share one in-flight cycle. The cycle
// keeps running if the caller goes away so the store is never left half
// refreshed by a dropped connection.
func (s *Service) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	ch := s.refreshes.DoChan(refreshKey, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeInternal, "refresh abandoned")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.InfoContext(ctx, "joined in-flight refresh",
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		result, ok := res.Val.(*models.RefreshResult)
		if !ok {
			return nil, dErrors.New(dErrors.CodeInternal, "unexpected refresh result")
		}
		return result, nil
	}
}

func (s *Service) refresh(ctx context.Context) (*models.RefreshResult, error) {
	start := time.Now()
	requestID := requestcontext.RequestID(ctx)

	raw, err := s.fetchCountries(ctx)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeUnavailable, start)
		s.logger.ErrorContext(ctx, "countries source unavailable",
			"request_id", requestID,
			"error", err,
		)
		return nil, sourceUnavailable(err, sources.SourceCountries)
	}

	rates, err := s.fetchRates(ctx)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeUnavailable, start)
		s.logger.ErrorContext(ctx, "rates source unavailable",
			"request_id", requestID,
			"error", err,
		)
		return nil, sourceUnavailable(err, sources.SourceRates)
	}

	merged := s.engine.Merge(raw, rates)

	upserted, err := s.store.UpsertAll(ctx, merged)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeError, start)
		s.logger.ErrorContext(ctx, "failed to store countries",
			"request_id", requestID,
			"countries", len(merged),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store countries")
	}
	s.metrics.AddUpserted(upserted)

	summary, err := s.store.Summary(ctx)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeError, start)
		s.logger.ErrorContext(ctx, "failed to summarize countries",
			"request_id", requestID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to summarize countries")
	}

	if s.renderer != nil {
		s.renderer.Trigger(*summary)
	}

	s.metrics.ObserveRefresh(metrics.OutcomeSuccess, start)
	s.logger.InfoContext(ctx, "countries refreshed",
		"request_id", requestID,
		"fetched", len(raw),
		"rates", len(rates),
		"upserted", upserted,
		"total_countries", summary.TotalCountries,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &models.RefreshResult{
		Countries: merged,
		Upserted:  upserted,
		Summary:   *summary,
	}, nil
}

func (s *Service) fetchCountries(ctx context.Context) ([]models.RawCountry, error) {
	start := time.Now()
	raw, err := s.countries.FetchCountries(ctx)
	s.metrics.ObserveSourceFetch(string(sources.SourceCountries), err, start)
	if err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	return raw, nil
}

func (s *Service) fetchRates(ctx context.Context) (models.RateTable, error) {
	start := time.Now()
	rates, err := s.rates.FetchRates(ctx)
	s.metrics.ObserveSourceFetch(string(sources.SourceRates), err, start)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	return rates, nil
}
