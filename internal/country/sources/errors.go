package sources

import (
	"errors"
	"fmt"

	"countryapi/pkg/platform/sentinel"
)

// Source names an upstream data source.
type Source string

const (
	SourceCountries Source = "countries"
	SourceRates     Source = "rates"
)

// SourceError reports that an upstream source could not supply data. It
// matches sentinel.ErrUnavailable with errors.Is and keeps the cause for logs.
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func (e *SourceError) Is(target error) bool {
	return target == sentinel.ErrUnavailable
}

func unavailable(source Source, format string, args ...any) *SourceError {
	return &SourceError{Source: source, Err: fmt.Errorf(format, args...)}
}

// FailedSource reports which source err refers to, if any.
func FailedSource(err error) (Source, bool) {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Source, true
	}
	return "", false
}
