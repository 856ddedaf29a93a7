package domain

import "strings"

// NormalizeCode normaliza códigos de proceso y de lote a mayúsculas sin espacios.
// Todas las APIs públicas deben pasar por aquí antes de comparar o persistir códigos.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeCodes normaliza una lista de códigos preservando el orden.
func NormalizeCodes(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = NormalizeCode(c)
	}
	return out
}
