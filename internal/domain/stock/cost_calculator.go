package stock

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada decimal.Decimal) decimal.Decimal {
	actual, entrada := decimal.NewFromInt(stockActual), decimal.NewFromInt(cantEntrada)
	sum := actual.Add(entrada)
	if !sum.IsPositive() {
		return decimal.Zero
	}
	return actual.Mul(costoActual).Add(entrada.Mul(costoEntrada)).Div(sum)
}
