package stock_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/internal/domain"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
	"github.com/jhoicas/service-stock-api/internal/domain/stock"
)

func newPosition() *entity.StockPosition {
	return &entity.StockPosition{
		Holder:    entity.HolderRef{Type: entity.HolderBranch, ID: "branch-a"},
		SKUCodeID: "sku-1",
	}
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 unidades a 100 + 10 unidades a 200 = 150
	got := stock.CostCalculator(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "esperado 150, obtenido %s", got)
}

func TestCostCalculator_SinStockDevuelveCero(t *testing.T) {
	got := stock.CostCalculator(0, decimal.Zero, 0, decimal.NewFromInt(10))
	assert.True(t, got.IsZero())
}

func TestCredit_GoodConPrecioActualizaPromedio(t *testing.T) {
	p := newPosition()
	price := decimal.NewFromInt(50)
	require.NoError(t, stock.Credit(p, entity.BucketGood, 4, &price))
	price2 := decimal.NewFromInt(100)
	require.NoError(t, stock.Credit(p, entity.BucketGood, 4, &price2))

	assert.Equal(t, int64(8), p.Good)
	assert.True(t, p.AvgPrice.Equal(decimal.NewFromInt(75)), "avg esperado 75, obtenido %s", p.AvgPrice)
}

func TestCredit_SinPrecioNoCambiaPromedio(t *testing.T) {
	p := newPosition()
	p.Good = 2
	p.AvgPrice = decimal.NewFromInt(30)
	require.NoError(t, stock.Credit(p, entity.BucketGood, 3, nil))

	assert.Equal(t, int64(5), p.Good)
	assert.True(t, p.AvgPrice.Equal(decimal.NewFromInt(30)))
}

func TestCredit_OtroBucketIgnoraPrecio(t *testing.T) {
	p := newPosition()
	price := decimal.NewFromInt(999)
	require.NoError(t, stock.Credit(p, entity.BucketFaulty, 1, &price))

	assert.Equal(t, int64(1), p.Faulty)
	assert.True(t, p.AvgPrice.IsZero(), "el precio solo aplica a entradas de good")
}

func TestCredit_CantidadNoPositiva(t *testing.T) {
	p := newPosition()
	assert.ErrorIs(t, stock.Credit(p, entity.BucketGood, 0, nil), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, stock.Credit(p, entity.BucketGood, -3, nil), domain.ErrInvalidQuantity)
}

func TestCredit_DesbordeRechazadoSinTocarPosicion(t *testing.T) {
	p := newPosition()
	p.Good = math.MaxInt64
	p.AvgPrice = decimal.NewFromInt(5)
	price := decimal.NewFromInt(10)

	err := stock.Credit(p, entity.BucketGood, 1, &price)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(math.MaxInt64), p.Good)
	assert.True(t, p.AvgPrice.Equal(decimal.NewFromInt(5)), "el promedio no cambia")
}

func TestCredit_HastaElMaximoExacto(t *testing.T) {
	p := newPosition()
	p.Scrap = math.MaxInt64 - 3
	require.NoError(t, stock.Credit(p, entity.BucketScrap, 3, nil))
	assert.Equal(t, int64(math.MaxInt64), p.Scrap)
}

func TestCostCalculator_CantidadesGrandesSinDesborde(t *testing.T) {
	got := stock.CostCalculator(math.MaxInt64, decimal.NewFromInt(10), math.MaxInt64, decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "obtenido %s", got)
}

func TestCredit_BucketDesconocido(t *testing.T) {
	p := newPosition()
	assert.ErrorIs(t, stock.Credit(p, entity.Bucket("lost"), 1, nil), domain.ErrInvalidInput)
}

func TestDebit_InsuficienteNombraSKU(t *testing.T) {
	p := newPosition()
	p.Good = 3
	err := stock.Debit(p, entity.BucketGood, 5)

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var se *domain.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "sku-1", se.SKUCodeID)
	assert.Equal(t, int64(3), se.Available)
	assert.Equal(t, int64(5), se.Requested)
	assert.Equal(t, int64(3), p.Good, "un débito fallido no modifica la posición")
}

func TestDebit_ExactoDejaCero(t *testing.T) {
	p := newPosition()
	p.Scrap = 4
	require.NoError(t, stock.Debit(p, entity.BucketScrap, 4))
	assert.Equal(t, int64(0), p.Scrap)
}

func TestMove_FaultyAGood(t *testing.T) {
	p := newPosition()
	p.Faulty = 5
	require.NoError(t, stock.Move(p, entity.BucketFaulty, entity.BucketGood, 2))

	assert.Equal(t, int64(3), p.Faulty)
	assert.Equal(t, int64(2), p.Good)
	assert.Equal(t, int64(5), p.Total(), "un move conserva el total")
}

func TestMove_MismoBucket(t *testing.T) {
	p := newPosition()
	p.Faulty = 5
	assert.ErrorIs(t, stock.Move(p, entity.BucketFaulty, entity.BucketFaulty, 1), domain.ErrInvalidInput)
}

func TestMove_Insuficiente(t *testing.T) {
	p := newPosition()
	p.Defective = 1
	err := stock.Move(p, entity.BucketDefective, entity.BucketScrap, 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), p.Defective)
	assert.Equal(t, int64(0), p.Scrap)
}
