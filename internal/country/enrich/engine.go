// Package enrich joins raw country records with exchange rates and derives
// the canonical records the store persists.
package enrich

import (
	"math/rand/v2"
	"strings"

	"countryapi/internal/country/models"
)

// The GDP multiplier is drawn uniformly from [MinMultiplier, MaxMultiplier).
const (
	MinMultiplier = 1000
	MaxMultiplier = 2000
)

// MultiplierFunc returns a GDP multiplier in [MinMultiplier, MaxMultiplier).
type MultiplierFunc func() int

func randomMultiplier() int {
	return MinMultiplier + rand.IntN(MaxMultiplier-MinMultiplier)
}

// Engine merges countries and rates. It holds no state between calls.
type Engine struct {
	multiplier MultiplierFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithMultiplier fixes the multiplier source, mainly for tests.
func WithMultiplier(fn MultiplierFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.multiplier = fn
		}
	}
}

// NewEngine returns an Engine drawing multipliers from math/rand/v2.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{multiplier: randomMultiplier}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge produces one canonical record per input, in input order. A nil or
// empty rate table leaves every record without a rate.
func (e *Engine) Merge(raw []models.RawCountry, rates models.RateTable) []models.Country {
	out := make([]models.Country, 0, len(raw))
	for _, rc := range raw {
		out = append(out, e.mergeOne(rc, rates))
	}
	return out
}

func (e *Engine) mergeOne(rc models.RawCountry, rates models.RateTable) models.Country {
	population := rc.Population
	if population < 0 {
		population = 0
	}

	c := models.Country{
		Name:       strings.TrimSpace(rc.Name),
		Capital:    optional(rc.Capital),
		Region:     optional(rc.Region),
		Population: population,
		FlagURL:    optional(rc.Flag),
	}

	code, ok := rc.PrimaryCurrencyCode()
	if !ok {
		return c
	}
	c.CurrencyCode = &code

	rate, ok := rates.Lookup(code)
	if !ok {
		return c
	}
	c.ExchangeRate = &rate
	c.EstimatedGDP = EstimateGDP(population, rate, e.multiplier())
	return c
}

// EstimateGDP is population × multiplier / rate. It is a placeholder proxy
// metric, not an economic model.
func EstimateGDP(population int64, rate float64, multiplier int) float64 {
	if rate <= 0 {
		return 0
	}
	return float64(population) * float64(multiplier) / rate
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
