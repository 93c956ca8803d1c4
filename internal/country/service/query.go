package service

import (
	"context"
	"errors"

	"countryapi/internal/country/models"
	"countryapi/internal/country/store"
	dErrors "countryapi/pkg/domain-errors"
	"countryapi/pkg/platform/sentinel"
)

// List returns the countries matching filter.
func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]models.Country, error) {
	countries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list countries")
	}
	return countries, nil
}

// GetByName returns every country whose name matches exactly.
func (s *Service) GetByName(ctx context.Context, name string) ([]models.Country, error) {
	countries, err := s.store.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgCountryNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load country")
	}
	return countries, nil
}

// Delete removes the country with the given name.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.store.DeleteByName(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, msgCountryNotFound)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete country")
	}
	s.logger.InfoContext(ctx, "country deleted", "name", name)
	return nil
}

// Status reports the live row count and the latest refresh time.
func (s *Service) Status(ctx context.Context) (*models.Status, error) {
	status, err := s.store.Status(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load status")
	}
	return status, nil
}

// Image returns the most recently rendered summary PNG.
func (s *Service) Image(ctx context.Context) ([]byte, error) {
	if s.images == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, msgImageNotFound)
	}
	data, err := s.images.Read(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, msgImageNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read summary image")
	}
	return data, nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "database unavailable")
	}
	return nil
}
