package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/service-stock-api/internal/domain"
)

// BatchLine línea de un lote pendiente (entrada, traslado o trabajo).
type BatchLine struct {
	SKUCodeID string
	Quantity  int64
	Price     decimal.Decimal
}

// PendingBatch lista de líneas preparada antes de enviarse.
// Es inmutable: Add y Remove devuelven un lote nuevo y nunca alteran el original.
type PendingBatch struct {
	lines []BatchLine
}

// NewPendingBatch construye un lote validando cada línea.
func NewPendingBatch(lines ...BatchLine) (PendingBatch, error) {
	b := PendingBatch{}
	for _, l := range lines {
		next, err := b.Add(l)
		if err != nil {
			return PendingBatch{}, err
		}
		b = next
	}
	return b, nil
}

// Add agrega una línea. Rechaza SKU repetido (ErrDuplicateLine) y cantidad no positiva.
func (b PendingBatch) Add(l BatchLine) (PendingBatch, error) {
	if l.SKUCodeID == "" {
		return b, domain.ErrInvalidInput
	}
	if l.Quantity <= 0 {
		return b, domain.ErrInvalidQuantity
	}
	if l.Price.IsNegative() {
		return b, domain.ErrInvalidInput
	}
	for _, existing := range b.lines {
		if existing.SKUCodeID == l.SKUCodeID {
			return b, domain.ErrDuplicateLine
		}
	}
	lines := make([]BatchLine, len(b.lines), len(b.lines)+1)
	copy(lines, b.lines)
	return PendingBatch{lines: append(lines, l)}, nil
}

// Remove quita la línea en la posición i; un índice fuera de rango devuelve el mismo lote.
func (b PendingBatch) Remove(i int) PendingBatch {
	if i < 0 || i >= len(b.lines) {
		return b
	}
	lines := make([]BatchLine, 0, len(b.lines)-1)
	lines = append(lines, b.lines[:i]...)
	lines = append(lines, b.lines[i+1:]...)
	return PendingBatch{lines: lines}
}

// Lines devuelve una copia de las líneas en orden de captura.
func (b PendingBatch) Lines() []BatchLine {
	out := make([]BatchLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Len cantidad de líneas.
func (b PendingBatch) Len() int { return len(b.lines) }

// Quantity cantidad ya comprometida en el lote para un SKU (0 si no está).
func (b PendingBatch) Quantity(skuCodeID string) int64 {
	for _, l := range b.lines {
		if l.SKUCodeID == skuCodeID {
			return l.Quantity
		}
	}
	return 0
}
