// Package inventory contiene la aritmética de stock (servicio de dominio, sin E/S).
package inventory

import (
	"math"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// MaxStock tope de stock y de cantidad por movimiento (columna INTEGER).
const MaxStock = math.MaxInt32

// ApplyEntry suma quantity al stock del producto. Si el resultado supera MaxStock
// devuelve ErrInvalidQuantity y el stock queda intacto.
func ApplyEntry(p *entity.Product, quantity int) error {
	if quantity <= 0 || quantity > MaxStock {
		return domain.ErrInvalidQuantity
	}
	if p.Stock > MaxStock-quantity {
		return domain.ErrInvalidQuantity
	}
	p.Stock += quantity
	return nil
}

// ApplyExit resta quantity del stock. Si no alcanza, el stock queda intacto.
func ApplyExit(p *entity.Product, quantity int) error {
	if quantity <= 0 || quantity > MaxStock {
		return domain.ErrInvalidQuantity
	}
	if p.Stock < quantity {
		return domain.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

// Apply aplica el efecto de un movimiento según su tipo.
func Apply(p *entity.Product, kind entity.MovementKind, quantity int) error {
	switch kind {
	case entity.MovementEntry:
		return ApplyEntry(p, quantity)
	case entity.MovementExit:
		return ApplyExit(p, quantity)
	}
	return domain.ErrInvalidMovementKind
}

// Reverse deshace el efecto de un movimiento: una entrada se revierte restando
// y una salida sumando.
func Reverse(p *entity.Product, kind entity.MovementKind, quantity int) error {
	switch kind {
	case entity.MovementEntry:
		return ApplyExit(p, quantity)
	case entity.MovementExit:
		return ApplyEntry(p, quantity)
	}
	return domain.ErrInvalidMovementKind
}

// Replace revierte el movimiento anterior y aplica el nuevo sobre el producto.
// Valida sobre el stock final: si quedaría negativo devuelve ErrInsufficientStock
// y el producto no cambia; si superaría MaxStock devuelve ErrInvalidQuantity.
func Replace(p *entity.Product, oldKind entity.MovementKind, oldQty int, newKind entity.MovementKind, newQty int) error {
	if newQty <= 0 || newQty > MaxStock || oldQty <= 0 || oldQty > MaxStock {
		return domain.ErrInvalidQuantity
	}
	if newKind != entity.MovementEntry && newKind != entity.MovementExit {
		return domain.ErrInvalidMovementKind
	}
	reversed := p.Stock - oldKind.Effect(oldQty)
	final := reversed + newKind.Effect(newQty)
	if final < 0 {
		return domain.ErrInsufficientStock
	}
	if final > MaxStock {
		return domain.ErrInvalidQuantity
	}
	p.Stock = final
	return nil
}
