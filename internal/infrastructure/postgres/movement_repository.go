package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, kind, quantity, description, created_at`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m    entity.Movement
		kind string
	)
	if err := row.Scan(&m.ID, &m.ProductID, &kind, &m.Quantity, &m.Description, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, movement.Kind.String(), movement.Quantity,
		movement.Description, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id, "get movement")
}

// GetForUpdate obtiene el movimiento y bloquea la fila (SELECT FOR UPDATE). Usar dentro de una tx.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id, "get movement for update")
}

func (r *MovementRepo) getOne(ctx context.Context, query, id, op string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// Search filtra por producto y/o tipo; orden cronológico.
func (r *MovementRepo) Search(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, filter.Kind.String())
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("search movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	// un product_id que no es UUID (22P02) no tiene movimientos
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("search movements: %w", err)
	}
	return list, nil
}

// CountByProduct número de movimientos del producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements WHERE product_id = $1`, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// Update reemplaza tipo, cantidad y descripción. product_id y created_at no cambian.
func (r *MovementRepo) Update(ctx context.Context, movement *entity.Movement) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE movements SET kind = $2, quantity = $3, description = $4 WHERE id = $1`,
		movement.ID, movement.Kind.String(), movement.Quantity, movement.Description,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMovementNotFound
	}
	return nil
}

// SumExitQuantity suma las cantidades de las salidas del producto.
func (r *MovementRepo) SumExitQuantity(ctx context.Context, productID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE product_id = $1 AND kind = 'EXIT'`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum exit quantity: %w", err)
	}
	return total, nil
}

// SumExitCost suma cantidad * precio unitario actual del producto para sus salidas.
func (r *MovementRepo) SumExitCost(ctx context.Context, productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(m.quantity * p.price), 0)
		FROM movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.product_id = $1 AND m.kind = 'EXIT'`,
		productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum exit cost: %w", err)
	}
	return total, nil
}
