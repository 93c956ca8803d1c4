package models

import (
	"strings"
	"time"
)

// Currency is one entry of a country's currency list as published upstream.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RawCountry is a country record exactly as the countries source returns it.
type RawCountry struct {
	Name       string     `json:"name"`
	Capital    string     `json:"capital"`
	Region     string     `json:"region"`
	Population int64      `json:"population"`
	Flag       string     `json:"flag"`
	Currencies []Currency `json:"currencies"`
}

// PrimaryCurrencyCode returns the code of the first listed currency. Countries
// with several currencies are reduced to that one.
func (c RawCountry) PrimaryCurrencyCode() (string, bool) {
	if len(c.Currencies) == 0 {
		return "", false
	}
	code := strings.TrimSpace(c.Currencies[0].Code)
	return code, code != ""
}

// RateTable maps currency codes to units per USD.
type RateTable map[string]float64

// Lookup returns a usable (positive) rate for code.
func (t RateTable) Lookup(code string) (float64, bool) {
	rate, ok := t[code]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// Country is the canonical, persisted record keyed by Name. ID and
// LastRefreshedAt are assigned by the store.
type Country struct {
	ID              int64      `json:"id,omitempty"`
	Name            string     `json:"name"`
	Capital         *string    `json:"capital"`
	Region          *string    `json:"region"`
	Population      int64      `json:"population"`
	CurrencyCode    *string    `json:"currency_code"`
	ExchangeRate    *float64   `json:"exchange_rate"`
	EstimatedGDP    float64    `json:"estimated_gdp"`
	FlagURL         *string    `json:"flag_url"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
}

// GDPEntry is one line of the top-GDP ranking.
type GDPEntry struct {
	Name         string  `json:"name"`
	EstimatedGDP float64 `json:"estimated_gdp"`
}

// TopGDPLimit bounds Summary.TopGDP.
const TopGDPLimit = 5

// Summary aggregates the table after a refresh. It is never persisted.
type Summary struct {
	TotalCountries int64      `json:"total_countries"`
	LastRefresh    *time.Time `json:"last_refresh"`
	TopGDP         []GDPEntry `json:"top_5_gdp"`
}

// Status is the live table summary served by GET /status.
type Status struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// RefreshResult is what a refresh cycle produced.
type RefreshResult struct {
	Countries []Country
	Upserted  int64
	Summary   Summary
}
