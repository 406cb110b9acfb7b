package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// StockLogRepository puerto de auditoría de stock (append-only).
type StockLogRepository interface {
	Record(ctx context.Context, log *entity.StockLog) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockLog, error)
}
