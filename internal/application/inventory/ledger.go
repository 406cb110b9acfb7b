package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// StockLedger es la única vía para modificar Product.Stock: aplica la aritmética de dominio,
// recalcula la rotación con el historial de movimientos y persiste el producto.
// Todos sus métodos esperan repositorios atados a una transacción abierta.
type StockLedger struct {
	metric inventory.TurnoverMetric
}

// NewStockLedger construye el ledger con la métrica de ventas configurada.
func NewStockLedger(metric inventory.TurnoverMetric) *StockLedger {
	if metric == "" {
		metric = inventory.MetricQuantity
	}
	return &StockLedger{metric: metric}
}

// Metric métrica de ventas usada en la rotación.
func (l *StockLedger) Metric() inventory.TurnoverMetric { return l.metric }

// Sales calcula la métrica de ventas del producto a partir de sus salidas.
func (l *StockLedger) Sales(ctx context.Context, movRepo repository.MovementRepository, p *entity.Product) (decimal.Decimal, error) {
	switch l.metric {
	case inventory.MetricCost:
		cost, err := movRepo.SumExitCost(ctx, p.ID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("sumar costo de salidas: %w", err)
		}
		return cost, nil
	default:
		qty, err := movRepo.SumExitQuantity(ctx, p.ID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("sumar salidas: %w", err)
		}
		return decimal.NewFromInt(int64(qty)), nil
	}
}

// RecalculateTurnover actualiza p.TurnoverFactor (no persiste).
func (l *StockLedger) RecalculateTurnover(ctx context.Context, movRepo repository.MovementRepository, p *entity.Product) (decimal.Decimal, error) {
	sales, err := l.Sales(ctx, movRepo, p)
	if err != nil {
		return decimal.Zero, err
	}
	p.TurnoverFactor = inventory.TurnoverFactor(p.InitialStock, p.Stock, sales)
	return sales, nil
}

// Commit recalcula la rotación y persiste stock y rotación del producto.
func (l *StockLedger) Commit(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	p *entity.Product,
	now time.Time,
) error {
	if _, err := l.RecalculateTurnover(ctx, movRepo, p); err != nil {
		return err
	}
	p.UpdatedAt = now
	return productRepo.UpdateStock(ctx, p)
}

// Audit agrega la entrada de auditoría del cambio de stock.
func (l *StockLedger) Audit(
	ctx context.Context,
	logRepo repository.StockLogRepository,
	p *entity.Product,
	previous int,
	kind entity.MovementKind,
	now time.Time,
) error {
	return logRepo.Record(ctx, &entity.StockLog{
		ID:               uuid.New().String(),
		ProductID:        p.ID,
		PreviousQuantity: previous,
		NewQuantity:      p.Stock,
		Operation:        kind.String(),
		CreatedAt:        now,
	})
}
