package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"a", "a", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"ABC", "abc", 3},

		// counted in runes, not bytes
		{"straße", "strasse", 2},
		{"über", "uber", 1},

		{"uppercase", "upercase", 1},
		{"substring", "subtring", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestLevenshteinNormalized(t *testing.T) {
	assert.InDelta(t, 1.0, LevenshteinNormalized("", ""), 1e-9)
	assert.InDelta(t, 1.0, LevenshteinNormalized("trim", "trim"), 1e-9)
	assert.InDelta(t, 0.0, LevenshteinNormalized("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, LevenshteinNormalized("über", "uber"), 1e-9)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("day_of_week", "DayOfWeek"), 1e-9)
	assert.Greater(t, Similarity("Uppercse", "Uppercase"), 0.8)
}
