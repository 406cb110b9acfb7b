package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MovementFilter filtros de consulta; ambos opcionales y combinados con AND.
type MovementFilter struct {
	ProductID string
	Kind      entity.MovementKind
}

// MovementRepository define el puerto de persistencia para movimientos de stock.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Search(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id string) error

	// SumExitQuantity suma las cantidades de las salidas del producto (0 si no hay).
	SumExitQuantity(ctx context.Context, productID string) (int, error)
	// SumExitCost suma cantidad * precio unitario del producto para sus salidas.
	SumExitCost(ctx context.Context, productID string) (decimal.Decimal, error)
}
