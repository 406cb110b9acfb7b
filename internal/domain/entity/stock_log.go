package entity

import "time"

// StockLog registro de auditoría de un cambio de stock. Solo se agrega, nunca se modifica.
type StockLog struct {
	ID               string
	ProductID        string
	PreviousQuantity int
	NewQuantity      int
	Operation        string // ENTRY | EXIT
	CreatedAt        time.Time
}
