package dto

import "time"

// CreateMovementRequest body para POST /api/movements.
// Kind acepta ENTRY/EXIT (o ENTRADA/SALIDA) sin distinguir mayúsculas.
type CreateMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
}

// UpdateMovementRequest body para PUT /api/movements/:id. El producto no cambia.
type UpdateMovementRequest struct {
	Kind        string `json:"kind" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
}

// MovementFilterRequest filtros de GET /api/movements; ambos opcionales.
type MovementFilterRequest struct {
	ProductID string `query:"product_id"`
	Kind      string `query:"kind"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Kind        string    `json:"kind"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementResultResponse resultado de registrar un movimiento.
type MovementResultResponse struct {
	Movement     MovementResponse `json:"movement"`
	ProductName  string           `json:"product_name"`
	CurrentStock int              `json:"current_stock"`
	LowStock     bool             `json:"low_stock"`
}

// MovementListResponse listado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}
