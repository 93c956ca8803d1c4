package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrimaryCurrencyCode(t *testing.T) {
	t.Run("first currency wins", func(t *testing.T) {
		c := RawCountry{Currencies: []Currency{{Code: "EUR"}, {Code: "USD"}}}
		code, ok := c.PrimaryCurrencyCode()
		assert.True(t, ok)
		assert.Equal(t, "EUR", code)
	})

	t.Run("no currencies", func(t *testing.T) {
		_, ok := RawCountry{}.PrimaryCurrencyCode()
		assert.False(t, ok)
	})

	t.Run("blank code counts as missing", func(t *testing.T) {
		_, ok := RawCountry{Currencies: []Currency{{Code: "  "}}}.PrimaryCurrencyCode()
		assert.False(t, ok)
	})
}

func TestRateTableLookup(t *testing.T) {
	table := RateTable{"NGN": 1600.5, "ZZZ": 0, "NEG": -1}

	rate, ok := table.Lookup("NGN")
	assert.True(t, ok)
	assert.Equal(t, 1600.5, rate)

	for _, code := range []string{"ZZZ", "NEG", "XXX"} {
		_, ok := table.Lookup(code)
		assert.False(t, ok, code)
	}

	_, ok = RateTable(nil).Lookup("NGN")
	assert.False(t, ok)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortGDPDesc, ParseSortOrder("gdp_desc"))
	assert.Equal(t, SortGDPAsc, ParseSortOrder("gdp_asc"))
	assert.Equal(t, SortUnsorted, ParseSortOrder(""))
	assert.Equal(t, SortUnsorted, ParseSortOrder("name"))
}
