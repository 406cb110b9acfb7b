package inventory

import "github.com/shopspring/decimal"

// TurnoverMetric métrica de ventas usada para la rotación de inventario.
type TurnoverMetric string

const (
	// MetricQuantity suma de unidades salidas.
	MetricQuantity TurnoverMetric = "quantity"
	// MetricCost suma de unidades salidas * precio unitario.
	MetricCost TurnoverMetric = "cost"
)

// ParseTurnoverMetric valida el nombre de la métrica; vacío = quantity.
func ParseTurnoverMetric(s string) (TurnoverMetric, bool) {
	switch TurnoverMetric(s) {
	case "", MetricQuantity:
		return MetricQuantity, true
	case MetricCost:
		return MetricCost, true
	}
	return "", false
}

// TurnoverFactor calcula la rotación = ventas / inventario promedio.
// InventarioPromedio = (InventarioInicial + StockActual) / 2; si es 0 la rotación es 0.
func TurnoverFactor(initialStock, currentStock int, sales decimal.Decimal) decimal.Decimal {
	avg := decimal.NewFromInt(int64(initialStock) + int64(currentStock)).Div(decimal.NewFromInt(2))
	if avg.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return sales.Div(avg).Round(4)
}
