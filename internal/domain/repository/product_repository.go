package repository

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ProductFilter criterios opcionales de búsqueda; vacío = sin filtro.
// Name busca por coincidencia parcial sin distinguir mayúsculas.
type ProductFilter struct {
	Name     string
	Category string
	Code     string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE) dentro de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update actualiza los datos descriptivos. No toca Code, Stock, InitialStock ni CreatedAt.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste stock y factor de rotación (usado por el ledger).
	UpdateStock(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}
