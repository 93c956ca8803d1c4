package handler

import (
	"net/url"
	"slices"
	"strings"

	"countryapi/internal/country/models"
	dErrors "countryapi/pkg/domain-errors"
)

const (
	paramRegion   = "region"
	paramCurrency = "currency"
	paramSort     = "sort"
)

var listParams = []string{paramRegion, paramCurrency, paramSort}

// parseListFilter validates the query keys and builds a filter. Any key
// outside region, currency and sort rejects the whole request; an unknown
// sort value is not an error and leaves the result unsorted.
func parseListFilter(query url.Values) (models.ListFilter, error) {
	var invalid []string
	for key := range query {
		if !slices.Contains(listParams, key) {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		slices.Sort(invalid)
		return models.ListFilter{}, dErrors.New(dErrors.CodeInvalidParameter,
			"Invalid query parameter detected: "+strings.Join(invalid, ", ")+".").
			WithParams(invalid...)
	}

	return models.ListFilter{
		Region:   optionalParam(query, paramRegion),
		Currency: optionalParam(query, paramCurrency),
		Sort:     models.ParseSortOrder(query.Get(paramSort)),
	}, nil
}

func optionalParam(query url.Values, key string) *string {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return nil
	}
	return &v
}
