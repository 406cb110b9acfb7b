package memory

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.StockLogRepository = (*StockLogRepo)(nil)

// StockLogRepo auditoría en memoria (solo agrega).
type StockLogRepo struct {
	c conn
}

// Record agrega una entrada.
func (r *StockLogRepo) Record(_ context.Context, log *entity.StockLog) error {
	return r.c.with(func(st *state) error {
		st.logs = append(st.logs, *log)
		return nil
	})
}

// ListByProduct entradas del producto en orden de registro.
func (r *StockLogRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockLog, error) {
	var list []*entity.StockLog
	err := r.c.with(func(st *state) error {
		for _, l := range st.logs {
			if l.ProductID == productID {
				l := l
				list = append(list, &l)
			}
		}
		return nil
	})
	return list, err
}
