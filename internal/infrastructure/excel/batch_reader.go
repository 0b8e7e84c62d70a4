// Package excel lee lotes de entrada de stock desde planillas .xlsx.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
)

// Columnas esperadas en la primera hoja: A sku_code_id, B quantity, C price (opcional).
const (
	colSKU = iota
	colQuantity
	colPrice
)

// MaxRows tope de filas de datos por planilla.
const MaxRows = 5000

// ReadStockEntry arma un PendingBatch con las filas de la primera hoja.
// La fila de encabezado se detecta por su primera celda; las filas vacías se ignoran.
// Cualquier fila inválida rechaza la planilla completa indicando su número.
func ReadStockEntry(r io.Reader) (ledger.PendingBatch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ledger.PendingBatch{}, fmt.Errorf("planilla ilegible: %w", domain.ErrInvalidInput)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ledger.PendingBatch{}, fmt.Errorf("planilla sin hojas: %w", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ledger.PendingBatch{}, fmt.Errorf("leer hoja %q: %w", sheets[0], domain.ErrInvalidInput)
	}

	start := 0
	if len(rows) > 0 && isHeader(rows[0]) {
		start = 1
	}
	if len(rows)-start > MaxRows {
		return ledger.PendingBatch{}, fmt.Errorf("máximo %d filas: %w", MaxRows, domain.ErrInvalidInput)
	}

	batch := ledger.PendingBatch{}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		n := i + 1 // numeración de la planilla
		sku := cell(row, colSKU)
		if sku == "" {
			continue
		}
		qty, err := strconv.ParseInt(cell(row, colQuantity), 10, 64)
		if err != nil {
			return ledger.PendingBatch{}, fmt.Errorf("fila %d: cantidad %q: %w", n, cell(row, colQuantity), domain.ErrInvalidQuantity)
		}
		price := decimal.Zero
		if raw := cell(row, colPrice); raw != "" {
			if price, err = decimal.NewFromString(strings.ReplaceAll(raw, ",", ".")); err != nil {
				return ledger.PendingBatch{}, fmt.Errorf("fila %d: precio %q: %w", n, raw, domain.ErrInvalidInput)
			}
		}
		next, err := batch.Add(ledger.BatchLine{SKUCodeID: sku, Quantity: qty, Price: price})
		if err != nil {
			return ledger.PendingBatch{}, fmt.Errorf("fila %d: %w", n, err)
		}
		batch = next
	}
	if batch.Len() == 0 {
		return ledger.PendingBatch{}, fmt.Errorf("planilla sin filas: %w", domain.ErrInvalidInput)
	}
	return batch, nil
}

func isHeader(row []string) bool {
	first := strings.ToLower(cell(row, colSKU))
	return strings.Contains(first, "sku") || strings.Contains(first, "code") || strings.Contains(first, "código")
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
