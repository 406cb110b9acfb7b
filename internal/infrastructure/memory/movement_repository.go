package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	c conn
}

// Create agrega el movimiento conservando el orden de inserción.
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	return r.c.with(func(st *state) error {
		st.seq++
		st.movements[movement.ID] = movementRow{m: *movement, seq: st.seq}
		return nil
	})
}

// GetByID devuelve una copia o (nil, nil).
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.c.with(func(st *state) error {
		if row, ok := st.movements[id]; ok {
			m := row.m
			out = &m
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual que GetByID; el runner ya serializa las transacciones.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

// Search filtra por producto y/o tipo; orden cronológico.
func (r *MovementRepo) Search(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var rows []movementRow
	err := r.c.with(func(st *state) error {
		for _, row := range st.movements {
			if filter.ProductID != "" && row.m.ProductID != filter.ProductID {
				continue
			}
			if filter.Kind != "" && row.m.Kind != filter.Kind {
				continue
			}
			rows = append(rows, row)
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].m.CreatedAt.Equal(rows[j].m.CreatedAt) {
			return rows[i].seq < rows[j].seq
		}
		return rows[i].m.CreatedAt.Before(rows[j].m.CreatedAt)
	})
	list := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		m := row.m
		list = append(list, &m)
	}
	return list, err
}

// CountByProduct número de movimientos del producto.
func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	err := r.c.with(func(st *state) error {
		for _, row := range st.movements {
			if row.m.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Update reemplaza tipo, cantidad y descripción. Producto y fecha no cambian.
func (r *MovementRepo) Update(_ context.Context, movement *entity.Movement) error {
	return r.c.with(func(st *state) error {
		row, ok := st.movements[movement.ID]
		if !ok {
			return domain.ErrMovementNotFound
		}
		row.m.Kind = movement.Kind
		row.m.Quantity = movement.Quantity
		row.m.Description = movement.Description
		st.movements[movement.ID] = row
		return nil
	})
}

// Delete elimina el movimiento.
func (r *MovementRepo) Delete(_ context.Context, id string) error {
	return r.c.with(func(st *state) error {
		if _, ok := st.movements[id]; !ok {
			return domain.ErrMovementNotFound
		}
		delete(st.movements, id)
		return nil
	})
}

// SumExitQuantity suma las salidas del producto.
func (r *MovementRepo) SumExitQuantity(_ context.Context, productID string) (int, error) {
	total := 0
	err := r.c.with(func(st *state) error {
		for _, row := range st.movements {
			if row.m.ProductID == productID && row.m.Kind == entity.MovementExit {
				total += row.m.Quantity
			}
		}
		return nil
	})
	return total, err
}

// SumExitCost suma cantidad * precio unitario actual del producto para sus salidas.
func (r *MovementRepo) SumExitCost(_ context.Context, productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.c.with(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return nil
		}
		for _, row := range st.movements {
			if row.m.ProductID == productID && row.m.Kind == entity.MovementExit {
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(row.m.Quantity))))
			}
		}
		return nil
	})
	return total, err
}
