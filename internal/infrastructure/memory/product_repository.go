package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	c conn
}

// Create agrega el producto; el código debe ser único.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.c.with(func(st *state) error {
		for _, p := range st.products {
			if p.Code == product.Code {
				return domain.ErrDuplicateProductCode
			}
		}
		st.products[product.ID] = *product
		return nil
	})
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.c.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate igual a GetByID: el runner ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByCode busca por código exacto.
func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.c.with(func(st *state) error {
		for _, p := range st.products {
			if p.Code == code {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Search filtra por nombre (contiene, sin mayúsculas), categoría y código; orden por nombre.
func (r *ProductRepo) Search(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	var list []*entity.Product
	err := r.c.with(func(st *state) error {
		for _, p := range st.products {
			if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
				continue
			}
			if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
				continue
			}
			if filter.Code != "" && p.Code != filter.Code {
				continue
			}
			p := p
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return list, err
}

// Update actualiza los campos descriptivos.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.c.with(func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.ErrProductNotFound
		}
		cur.Name = product.Name
		cur.Description = product.Description
		cur.Price = product.Price
		cur.Category = product.Category
		cur.UpdatedAt = product.UpdatedAt
		st.products[product.ID] = cur
		return nil
	})
}

// UpdateStock persiste stock y rotación.
func (r *ProductRepo) UpdateStock(_ context.Context, product *entity.Product) error {
	return r.c.with(func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.ErrProductNotFound
		}
		cur.Stock = product.Stock
		cur.TurnoverFactor = product.TurnoverFactor
		cur.UpdatedAt = product.UpdatedAt
		st.products[product.ID] = cur
		return nil
	})
}

// Delete elimina el producto (sin error si no existe).
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.c.with(func(st *state) error {
		delete(st.products, id)
		return nil
	})
}
