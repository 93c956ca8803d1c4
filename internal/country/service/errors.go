package service

import (
	"countryapi/internal/country/sources"
	dErrors "countryapi/pkg/domain-errors"
)

const (
	msgSourceUnavailable = "External data source unavailable"
	msgCountryNotFound   = "Country not found"
	msgImageNotFound     = "Summary image not found"
)

var sourceNames = map[sources.Source]string{
	sources.SourceCountries: "rest countries api",
	sources.SourceRates:     "exchange rates api",
}

// sourceUnavailable tags err with the upstream that failed. A fetcher error
// that does not name its source is attributed to fallback.
func sourceUnavailable(err error, fallback sources.Source) *dErrors.Error {
	source, ok := sources.FailedSource(err)
	if !ok {
		source = fallback
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msgSourceUnavailable).
		WithDetails("Could not fetch data from " + sourceNames[source])
}
