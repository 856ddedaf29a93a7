package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mes-api/internal/application/routing"
)

func TestPattern_DevuelveCopia(t *testing.T) {
	codes, ok := routing.Pattern("simple")
	require.True(t, ok)
	assert.Equal(t, []string{"CA", "SP", "PA", "CI", "VI"}, codes)

	// Mutar lo devuelto no contamina la tabla interna.
	codes[0] = "XX"
	again, ok := routing.Pattern("simple")
	require.True(t, ok)
	assert.Equal(t, "CA", again[0])
}

func TestPattern_NombreInsensibleAMayusculas(t *testing.T) {
	codes, ok := routing.Pattern("  MEDIUM ")
	require.True(t, ok)
	assert.Len(t, codes, 8)

	_, ok = routing.Pattern("deluxe")
	assert.False(t, ok)
}

func TestPatternNames(t *testing.T) {
	assert.Equal(t, []string{"simple", "medium", "complex"}, routing.PatternNames())
}

func TestIdentifyPattern(t *testing.T) {
	cases := []struct {
		name  string
		codes []string
		want  string
	}{
		{"simple exacto", []string{"CA", "SP", "PA", "CI", "VI"}, "simple"},
		{"insensible a mayúsculas", []string{"ca", "sp", "pa", "ci", "vi"}, "simple"},
		{"complex exacto", []string{"CA", "MC", "SP", "TW", "HS", "PA", "AS", "TE", "CI", "VI"}, "complex"},
		{"prefijo no coincide", []string{"CA", "PA"}, ""},
		{"orden distinto no coincide", []string{"SP", "CA", "PA", "CI", "VI"}, ""},
		{"lista vacía", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, routing.IdentifyPattern(tc.codes))
		})
	}
}
