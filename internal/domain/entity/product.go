package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock solo lo modifica el ledger (entradas/salidas); InitialStock se fija al crear
// y sirve de base para el factor de rotación.
type Product struct {
	ID             string
	Code           string // único, inmutable después de crear
	Name           string
	Description    string
	Price          decimal.Decimal // precio unitario (>= 0)
	Stock          int
	InitialStock   int
	Category       string
	TurnoverFactor decimal.Decimal // derivado, se recalcula con cada movimiento
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLowStock informa si el stock está estrictamente por debajo del umbral.
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock < threshold
}
