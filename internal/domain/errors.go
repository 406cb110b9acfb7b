package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrProductNotFound      = errors.New("producto no encontrado")
	ErrMovementNotFound     = errors.New("movimiento no encontrado")
	ErrInvalidQuantity      = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrDuplicateProductCode = errors.New("el código del producto ya está registrado")
	ErrInvalidMovementKind  = errors.New("tipo de movimiento inválido")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrProductHasMovements  = errors.New("el producto tiene movimientos asociados")
)
