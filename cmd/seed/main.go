// seed genera un script SQL para poblar la tabla bom_lines a partir de un CSV
// de ingeniería (product_id, process_code, material_id, material_code,
// material_name, qty_per_unit). Los CSV exportados por los sistemas de los
// proveedores suelen venir en EUC-KR; se decodifican a UTF-8 antes de emitir.
//
// Uso: go run ./cmd/seed [ruta/bom.csv]
// Por defecto busca bom.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/004_seed_bom.sql
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

type bomLine struct {
	productID    string
	processCode  string
	materialID   string
	materialCode string
	materialName string
	qtyPerUnit   string
}

func main() {
	csvPath := "bom.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	lines, err := readBOMLines(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	if len(lines) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene líneas de BOM")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "004_seed_bom.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Líneas de BOM por producto y proceso\n")
	out.WriteString("-- Generado desde el CSV de ingeniería\n\n")
	for _, l := range lines {
		fmt.Fprintf(out, "INSERT INTO bom_lines (id, product_id, process_code, material_id, material_code, material_name, qty_per_unit)\n")
		fmt.Fprintf(out, "VALUES (gen_random_uuid(), '%s', '%s', '%s', '%s', '%s', %s)\n",
			escapeSQL(l.productID), escapeSQL(l.processCode), escapeSQL(l.materialID),
			escapeSQL(l.materialCode), escapeSQL(l.materialName), l.qtyPerUnit)
		out.WriteString("ON CONFLICT (product_id, process_code, material_id) DO UPDATE SET qty_per_unit = EXCLUDED.qty_per_unit;\n")
	}

	fmt.Printf("Generado %s: %d líneas de BOM\n", outPath, len(lines))
}

// readBOMLines decodifica el CSV (EUC-KR si no es UTF-8 válido) y devuelve
// las líneas con cabecera descartada.
func readBOMLines(f *os.File) ([]bomLine, error) {
	br := bufio.NewReader(f)
	peek, _ := br.Peek(4096)

	var src io.Reader = br
	if !utf8.Valid(peek) {
		src = transform.NewReader(br, korean.EUCKR.NewDecoder())
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = 6
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var out []bomLine
	for i, rec := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "product_id") {
			continue // cabecera
		}
		l := bomLine{
			productID:    strings.TrimSpace(rec[0]),
			processCode:  strings.ToUpper(strings.TrimSpace(rec[1])),
			materialID:   strings.TrimSpace(rec[2]),
			materialCode: strings.TrimSpace(rec[3]),
			materialName: strings.TrimSpace(rec[4]),
			qtyPerUnit:   strings.TrimSpace(rec[5]),
		}
		if l.productID == "" || l.processCode == "" || l.materialID == "" || l.qtyPerUnit == "" {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
