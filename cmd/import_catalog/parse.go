package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/mayoreo-api/internal/application/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Columnas del export heredado, en orden:
// clave;descripcion;cb;clave_pro;tipo;pcosto;pzasxcaja;precio1;precio2;precio3;min1;min2;min3
const minColumns = 7

// rowError fila que no se pudo interpretar.
type rowError struct {
	Line int
	Err  error
}

func (e rowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// readProducts decodifica el CSV (Windows-1252, separado por ';') en solicitudes de alta.
// Las filas inválidas se reportan y se omiten; el resto se devuelve en orden.
func readProducts(r io.Reader) ([]dto.CreateProductRequest, []rowError, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		out  []dto.CreateProductRequest
		bad  []rowError
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				bad = append(bad, rowError{Line: line, Err: err})
				continue
			}
			return nil, nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "clave") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		req, err := parseRow(rec)
		if err != nil {
			bad = append(bad, rowError{Line: line, Err: err})
			continue
		}
		out = append(out, req)
	}
	return out, bad, nil
}

func parseRow(rec []string) (dto.CreateProductRequest, error) {
	if len(rec) < minColumns {
		return dto.CreateProductRequest{}, fmt.Errorf("se esperaban al menos %d columnas, hay %d", minColumns, len(rec))
	}
	col := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	req := dto.CreateProductRequest{
		Code: col(0),
		ProductInput: dto.ProductInput{
			Description: col(1),
			Barcode:     col(2),
			SupplierKey: col(3),
			Type:        col(4),
			Status:      true,
			Active:      true,
		},
	}
	var err error
	if req.Cost, err = parseAmount(col(5)); err != nil {
		return req, fmt.Errorf("pcosto: %w", err)
	}
	if req.PiecesPerBox, err = parseAmount(col(6)); err != nil {
		return req, fmt.Errorf("pzasxcaja: %w", err)
	}
	for i := 0; i < 3; i++ {
		if req.Prices[i], err = parseAmount(col(7 + i)); err != nil {
			return req, fmt.Errorf("precio%d: %w", i+1, err)
		}
		if req.Minimums[i], err = parseAmount(col(10 + i)); err != nil {
			return req, fmt.Errorf("min%d: %w", i+1, err)
		}
	}
	return req, nil
}

// parseAmount acepta "1234.50", "1,234.50", "$1,234.50" y "1234,50". Vacío es cero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
