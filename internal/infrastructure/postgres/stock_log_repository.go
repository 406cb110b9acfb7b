package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo auditoría de stock sobre PostgreSQL (solo INSERT y SELECT).
type StockLogRepo struct {
	q Querier
}

// NewStockLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLogRepository(q Querier) *StockLogRepo {
	return &StockLogRepo{q: q}
}

// Record agrega una entrada de auditoría.
func (r *StockLogRepo) Record(ctx context.Context, log *entity.StockLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_logs (id, product_id, previous_quantity, new_quantity, operation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.ProductID, log.PreviousQuantity, log.NewQuantity, log.Operation, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock log: %w", err)
	}
	return nil
}

// ListByProduct entradas del producto en orden cronológico.
func (r *StockLogRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockLog, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, previous_quantity, new_quantity, operation, created_at
		FROM stock_logs WHERE product_id::text = $1 ORDER BY created_at, id`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLog
	for rows.Next() {
		var l entity.StockLog
		if err := rows.Scan(&l.ID, &l.ProductID, &l.PreviousQuantity, &l.NewQuantity, &l.Operation, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
