// Package memory implementa los repositorios sobre mapas en memoria.
// Las transacciones se serializan con un mutex y trabajan sobre una copia
// del estado que solo reemplaza al original si fn termina sin error.
package memory

import (
	"context"
	"sync"

	appinventory "github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ appinventory.TxRunner = (*TxRunner)(nil)

type movementRow struct {
	m   entity.Movement
	seq int64
}

type state struct {
	products  map[string]entity.Product
	movements map[string]movementRow
	logs      []entity.StockLog
	seq       int64
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		movements: make(map[string]movementRow),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]entity.Product, len(s.products)),
		movements: make(map[string]movementRow, len(s.movements)),
		logs:      make([]entity.StockLog, len(s.logs)),
		seq:       s.seq,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	copy(c.logs, s.logs)
	return c
}

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// conn resuelve sobre qué estado opera un repositorio: el de la tx abierta
// (el runner ya tiene el lock) o el confirmado del Store.
type conn struct {
	store *Store
	tx    *state
}

func (c conn) with(fn func(st *state) error) error {
	if c.tx != nil {
		return fn(c.tx)
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return fn(c.store.st)
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{c: conn{store: s}} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{c: conn{store: s}} }

// StockLogs repositorio de auditoría fuera de transacción.
func (s *Store) StockLogs() *StockLogRepo { return &StockLogRepo{c: conn{store: s}} }

// TxRunner ejecuta callbacks sobre una copia del estado y la confirma al terminar sin error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run bloquea el Store durante toda la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	logRepo repository.StockLogRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.store.st.clone()
	c := conn{store: r.store, tx: tx}
	if err := fn(&ProductRepo{c: c}, &MovementRepo{c: c}, &StockLogRepo{c: c}); err != nil {
		return err
	}
	r.store.st = tx
	return nil
}
