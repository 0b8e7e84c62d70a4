package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/domain"
)

func TestPendingBatch_AddEsInmutable(t *testing.T) {
	b0 := ledger.PendingBatch{}
	b1, err := b0.Add(line("A", 2))
	require.NoError(t, err)
	b2, err := b1.Add(line("B", 3))
	require.NoError(t, err)

	assert.Equal(t, 0, b0.Len())
	assert.Equal(t, 1, b1.Len())
	assert.Equal(t, 2, b2.Len())
	assert.Equal(t, int64(3), b2.Quantity("B"))
	assert.Zero(t, b1.Quantity("B"))
}

func TestPendingBatch_RechazaLineaDuplicada(t *testing.T) {
	b, err := ledger.NewPendingBatch(line("A", 2))
	require.NoError(t, err)
	_, err = b.Add(line("A", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicateLine)

	_, err = ledger.NewPendingBatch(line("A", 1), line("A", 1))
	assert.ErrorIs(t, err, domain.ErrDuplicateLine)
}

func TestPendingBatch_ValidaLinea(t *testing.T) {
	_, err := ledger.NewPendingBatch(line("A", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = ledger.NewPendingBatch(line("", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = ledger.NewPendingBatch(ledger.BatchLine{SKUCodeID: "A", Quantity: 1, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPendingBatch_Remove(t *testing.T) {
	b, err := ledger.NewPendingBatch(line("A", 1), line("B", 2), line("C", 3))
	require.NoError(t, err)

	r := b.Remove(1)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, "A", r.Lines()[0].SKUCodeID)
	assert.Equal(t, "C", r.Lines()[1].SKUCodeID)
	assert.Equal(t, 3, b.Len(), "el original no cambia")
	assert.Equal(t, 3, b.Remove(7).Len())

	lines := b.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, int64(1), b.Quantity("A"), "Lines devuelve una copia")
}
