package inventory

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: si fn devuelve error no se persiste nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.MovementRepository,
		logRepo repository.StockLogRepository,
	) error) error
}

// LowStockNotifier dispara el aviso de stock bajo (lo implementa *alert.StockSubject).
type LowStockNotifier interface {
	CheckLowStock(ctx context.Context, p *entity.Product, threshold int) bool
}
