package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"countryapi/internal/country/models"
	pstrings "countryapi/pkg/platform/strings"
	"countryapi/pkg/requestcontext"
)

// InMemoryStore mirrors PostgresStore semantics for tests and local runs.
type InMemoryStore struct {
	mu     sync.RWMutex
	rows   map[string]models.Country
	nextID int64
}

// NewInMemory returns an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{rows: make(map[string]models.Country)}
}

func (s *InMemoryStore) UpsertAll(ctx context.Context, countries []models.Country) (int64, error) {
	countries = pstrings.DedupeByKey(countries, func(c models.Country) string { return c.Name })
	now := requestcontext.Now(ctx).UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range countries {
		if existing, ok := s.rows[c.Name]; ok {
			c.ID = existing.ID
		} else {
			s.nextID++
			c.ID = s.nextID
		}
		stamp := now
		c.LastRefreshedAt = &stamp
		s.rows[c.Name] = c
	}
	return int64(len(countries)), nil
}

func (s *InMemoryStore) Summary(ctx context.Context) (*models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sorted(models.SortGDPDesc)
	top := make([]models.GDPEntry, 0, models.TopGDPLimit)
	for _, c := range all[:min(len(all), models.TopGDPLimit)] {
		top = append(top, models.GDPEntry{Name: c.Name, EstimatedGDP: c.EstimatedGDP})
	}
	return &models.Summary{
		TotalCountries: int64(len(all)),
		LastRefresh:    s.lastRefresh(),
		TopGDP:         top,
	}, nil
}

func (s *InMemoryStore) Status(ctx context.Context) (*models.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &models.Status{TotalCountries: int64(len(s.rows)), LastRefreshedAt: s.lastRefresh()}, nil
}

func (s *InMemoryStore) List(ctx context.Context, filter models.ListFilter) ([]models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Country{}
	for _, c := range s.sorted(filter.Sort) {
		if filter.Region != nil && (c.Region == nil || *c.Region != *filter.Region) {
			continue
		}
		if filter.Currency != nil && (c.CurrencyCode == nil || *c.CurrencyCode != *filter.Currency) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *InMemoryStore) FindByName(ctx context.Context, name string) ([]models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[name]
	if !ok {
		return nil, ErrNotFound
	}
	return []models.Country{c}, nil
}

func (s *InMemoryStore) DeleteByName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[name]; !ok {
		return ErrNotFound
	}
	delete(s.rows, name)
	return nil
}

func (s *InMemoryStore) Ping(context.Context) error {
	return nil
}

func (s *InMemoryStore) sorted(order models.SortOrder) []models.Country {
	all := make([]models.Country, 0, len(s.rows))
	for _, c := range s.rows {
		all = append(all, c)
	}
	slices.SortFunc(all, func(a, b models.Country) int {
		switch order {
		case models.SortGDPDesc:
			return cmp.Or(cmp.Compare(b.EstimatedGDP, a.EstimatedGDP), cmp.Compare(a.Name, b.Name))
		case models.SortGDPAsc:
			return cmp.Or(cmp.Compare(a.EstimatedGDP, b.EstimatedGDP), cmp.Compare(a.Name, b.Name))
		default:
			return cmp.Compare(a.ID, b.ID)
		}
	})
	return all
}

func (s *InMemoryStore) lastRefresh() *time.Time {
	var last *time.Time
	for _, c := range s.rows {
		if c.LastRefreshedAt != nil && (last == nil || c.LastRefreshedAt.After(*last)) {
			t := *c.LastRefreshedAt
			last = &t
		}
	}
	return last
}
