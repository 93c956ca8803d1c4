package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGDP(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"small integer", 950, "950"},
		{"grouped", 1234567, "1,234,567"},
		{"fraction trimmed to three places", 1234.56789, "1,234.568"},
		{"trailing zeros dropped", 1500.5, "1,500.5"},
		{"billion", 3_450_000_000, "3.45 Billion"},
		{"just under trillion", 999_990_000_000, "999.99 Billion"},
		{"trillion", 25_462_700_000_000, "25.46 Trillion"},
		{"thousands of trillions", 1_234_000_000_000_000, "1,234.00 Trillion"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatGDP(tc.in))
		})
	}
}
