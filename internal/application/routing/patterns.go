package routing

import (
	"strings"

	"github.com/jhoicas/mes-api/internal/domain"
)

// Patrones de ruta incorporados. Tabla de configuración inmutable: se expone
// solo vía funciones de consulta que devuelven copias.
const (
	PatternSimple  = "simple"
	PatternMedium  = "medium"
	PatternComplex = "complex"
)

var processPatterns = map[string][]string{
	PatternSimple:  {"CA", "SP", "PA", "CI", "VI"},
	PatternMedium:  {"CA", "MC", "SP", "TW", "PA", "AS", "CI", "VI"},
	PatternComplex: {"CA", "MC", "SP", "TW", "HS", "PA", "AS", "TE", "CI", "VI"},
}

// Pattern devuelve la secuencia de códigos de un patrón (copia) y si existe.
// El nombre es insensible a mayúsculas.
func Pattern(name string) ([]string, bool) {
	codes, ok := processPatterns[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out, true
}

// PatternNames devuelve los nombres de patrón disponibles.
func PatternNames() []string {
	return []string{PatternSimple, PatternMedium, PatternComplex}
}

// IdentifyPattern compara una secuencia de códigos contra los patrones
// incorporados (insensible a mayúsculas, sensible al orden, coincidencia
// exacta). Devuelve el nombre del patrón o cadena vacía si no coincide
// con ninguno.
func IdentifyPattern(codes []string) string {
	normalized := domain.NormalizeCodes(codes)
	for _, name := range PatternNames() {
		pattern := processPatterns[name]
		if len(pattern) != len(normalized) {
			continue
		}
		match := true
		for i, c := range pattern {
			if normalized[i] != c {
				match = false
				break
			}
		}
		if match {
			return name
		}
	}
	return ""
}
