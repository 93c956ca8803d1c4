package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	name  string
	value int
}

func byName(r row) string { return r.name }

func TestDedupeByKey(t *testing.T) {
	tests := []struct {
		name     string
		input    []row
		expected []row
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []row{},
			expected: []row{},
		},
		{
			name:     "single element",
			input:    []row{{"foo", 1}},
			expected: []row{{"foo", 1}},
		},
		{
			name:     "last value wins at first position",
			input:    []row{{"foo", 1}, {"bar", 2}, {"foo", 3}},
			expected: []row{{"foo", 3}, {"bar", 2}},
		},
		{
			name:     "keys are trimmed before comparison",
			input:    []row{{"foo", 1}, {"  foo ", 2}},
			expected: []row{{"  foo ", 2}},
		},
		{
			name:     "removes empty keys",
			input:    []row{{"", 1}, {"  ", 2}, {"bar", 3}},
			expected: []row{{"bar", 3}},
		},
		{
			name:     "preserves case",
			input:    []row{{"Foo", 1}, {"foo", 2}},
			expected: []row{{"Foo", 1}, {"foo", 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeByKey(tt.input, byName))
		})
	}
}
