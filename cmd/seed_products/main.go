// seed_products genera un script SQL para poblar el catálogo de productos
// a partir de un CSV exportado desde Excel (ISO-8859-1, separador ';').
//
// Columnas: codigo;nombre;categoria;precio;stock[;descripcion]. La primera fila es encabezado.
//
// Uso: go run ./cmd/seed_products [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_products.sql
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedNamespace fija los IDs generados: el mismo código produce siempre el mismo UUID.
var seedNamespace = uuid.MustParse("6f1c3a52-2b7e-4d7a-9a0e-5c2f8e1d4b90")

type catalogRow struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Description string
}

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_products.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := writeSeed(w, rows, filepath.Base(csvPath)); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d productos\n", outPath, len(rows))
}

// parseCatalog lee el CSV ya decodificado a UTF-8. Filas con código repetido se ignoran.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var rows []catalogRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 5 columnas, hay %d", line, len(rec))
		}
		code := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if code == "" || name == "" {
			continue
		}
		if seen[code] {
			continue
		}
		// Excel en español exporta "12.500,50"
		rawPrice := strings.ReplaceAll(strings.TrimSpace(rec[3]), ".", "")
		rawPrice = strings.ReplaceAll(rawPrice, ",", ".")
		if rawPrice == "" {
			rawPrice = "0"
		}
		price, err := decimal.NewFromString(rawPrice)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[3])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, rec[4])
		}
		var desc string
		if len(rec) > 5 {
			desc = strings.TrimSpace(rec[5])
		}
		seen[code] = true
		rows = append(rows, catalogRow{
			ID:          uuid.NewSHA1(seedNamespace, []byte(code)),
			Code:        code,
			Name:        name,
			Category:    strings.TrimSpace(rec[2]),
			Price:       price.Round(2),
			Stock:       stock,
			Description: desc,
		})
	}
	return rows, nil
}

// writeSeed escribe un INSERT idempotente; el stock del catálogo es también el inventario inicial.
func writeSeed(w io.Writer, rows []catalogRow, source string) error {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de productos\n")
	fmt.Fprintf(&b, "-- Generado desde %s\n\n", source)
	if len(rows) == 0 {
		b.WriteString("-- (sin productos)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	b.WriteString("INSERT INTO products (id, code, name, description, price, stock, initial_stock, category) VALUES\n")
	for i, r := range rows {
		sep := ","
		if i == len(rows)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s, %d, %d, '%s')%s\n",
			r.ID, escapeSQL(r.Code), escapeSQL(r.Name), escapeSQL(r.Description),
			r.Price.StringFixed(2), r.Stock, r.Stock, escapeSQL(r.Category), sep)
	}
	b.WriteString("ON CONFLICT (code) DO NOTHING;\n")
	_, err := io.WriteString(w, b.String())
	return err
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
