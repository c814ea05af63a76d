package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DayOfWeek", "dayofweek"},
		{"day_of_week", "dayofweek"},
		{"day-of-week", "dayofweek"},
		{"Day Of Week", "dayofweek"},
		{"lookup.table", "lookuptable"},
		{"XMLDoc", "xmldoc"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"SubString", []string{"sub", "string"}},
		{"lookup_table", []string{"lookup", "table"}},
		{"XMLDoc", []string{"xml", "doc"}},
		{"getHTTPResponse", []string{"get", "http", "response"}},
		{"Trim", []string{"trim"}},
		{"__", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenizeIdent(tt.input))
		})
	}
}
