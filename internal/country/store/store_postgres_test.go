package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"countryapi/internal/country/models"
)

func TestBuildUpsert(t *testing.T) {
	query, args := buildUpsert([]models.Country{
		{Name: "Xland", Population: 1000, CurrencyCode: strPtr("XXX"), ExchangeRate: floatPtr(2), EstimatedGDP: 750000},
		{Name: "Antarctica", Population: 10},
	})

	assert.Contains(t, query, "($1, $2, $3, $4, $5, $6, $7, $8, now())")
	assert.Contains(t, query, "($9, $10, $11, $12, $13, $14, $15, $16, now())")
	assert.Contains(t, query, "ON CONFLICT (name) DO UPDATE SET")
	assert.Contains(t, query, "last_refreshed_at = EXCLUDED.last_refreshed_at")
	assert.NotContains(t, query, "name = EXCLUDED.name")
	assert.Len(t, args, 16)
	assert.Equal(t, "Xland", args[0])
	assert.Equal(t, "Antarctica", args[8])
	assert.Nil(t, args[12].(*string), "null currency stays a typed nil")
	assert.Equal(t, 1, strings.Count(query, "ON CONFLICT"))
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "estimated_gdp DESC, name ASC", orderClause(models.SortGDPDesc))
	assert.Equal(t, "estimated_gdp ASC, name ASC", orderClause(models.SortGDPAsc))
	assert.Equal(t, "id ASC", orderClause(models.SortUnsorted))
}
