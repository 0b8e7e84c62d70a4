package excel_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/infrastructure/excel"
)

// workbook arma un .xlsx en memoria con las filas dadas en la primera hoja.
func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadStockEntry_ConEncabezado(t *testing.T) {
	buf := workbook(t,
		[]any{"sku_code_id", "quantity", "price"},
		[]any{"s1", 5, "12.50"},
		[]any{"", "", ""},
		[]any{"s2", 3},
	)

	batch, err := excel.ReadStockEntry(buf)
	require.NoError(t, err)
	require.Equal(t, 2, batch.Len())

	lines := batch.Lines()
	assert.Equal(t, "s1", lines[0].SKUCodeID)
	assert.Equal(t, int64(5), lines[0].Quantity)
	assert.Equal(t, "12.5", lines[0].Price.String())
	assert.True(t, lines[1].Price.IsZero(), "sin precio queda en cero")
}

func TestReadStockEntry_SinEncabezado(t *testing.T) {
	batch, err := excel.ReadStockEntry(workbook(t, []any{"s1", 1, "1,5"}))
	require.NoError(t, err)
	assert.Equal(t, "1.5", batch.Lines()[0].Price.String(), "acepta coma decimal")
}

func TestReadStockEntry_CantidadInvalida(t *testing.T) {
	_, err := excel.ReadStockEntry(workbook(t,
		[]any{"sku_code_id", "quantity"},
		[]any{"s1", "diez"},
	))
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Contains(t, err.Error(), "fila 2")

	_, err = excel.ReadStockEntry(workbook(t, []any{"s1", 0}))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestReadStockEntry_LineaDuplicada(t *testing.T) {
	_, err := excel.ReadStockEntry(workbook(t,
		[]any{"s1", 1},
		[]any{"s1", 2},
	))
	require.ErrorIs(t, err, domain.ErrDuplicateLine)
	assert.Contains(t, err.Error(), "fila 2")
}

func TestReadStockEntry_PlanillaVacia(t *testing.T) {
	_, err := excel.ReadStockEntry(workbook(t, []any{"sku_code_id", "quantity"}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadStockEntry_NoEsXLSX(t *testing.T) {
	_, err := excel.ReadStockEntry(bytes.NewBufferString("sku;qty\ns1;1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadStockEntry_DemasiadasFilas(t *testing.T) {
	rows := make([][]any, 0, excel.MaxRows+1)
	for i := 0; i <= excel.MaxRows; i++ {
		rows = append(rows, []any{fmt.Sprintf("s%d", i), 1})
	}
	_, err := excel.ReadStockEntry(workbook(t, rows...))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
