package inventory_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
)

func product(stock int) *entity.Product {
	return &entity.Product{ID: "p-1", Code: "10001", Name: "Tinta", Stock: stock, InitialStock: stock}
}

func TestApplyEntry_SumaCantidad(t *testing.T) {
	p := product(10)
	require.NoError(t, inventory.ApplyEntry(p, 5))
	assert.Equal(t, 15, p.Stock)
}

func TestApplyExit_RestaCantidad(t *testing.T) {
	p := product(10)
	require.NoError(t, inventory.ApplyExit(p, 10))
	assert.Equal(t, 0, p.Stock)
}

func TestApplyExit_StockInsuficienteNoModifica(t *testing.T) {
	p := product(3)
	err := inventory.ApplyExit(p, 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, p.Stock, "el stock no debe cambiar cuando la salida falla")
}

func TestCantidadNoPositiva_Falla(t *testing.T) {
	for _, q := range []int{0, -1, -50} {
		p := product(10)
		assert.ErrorIs(t, inventory.ApplyEntry(p, q), domain.ErrInvalidQuantity)
		assert.ErrorIs(t, inventory.ApplyExit(p, q), domain.ErrInvalidQuantity)
		assert.Equal(t, 10, p.Stock)
	}
}

func TestReverse_EntradaYSalida(t *testing.T) {
	p := product(15)
	require.NoError(t, inventory.Reverse(p, entity.MovementEntry, 5))
	assert.Equal(t, 10, p.Stock)

	require.NoError(t, inventory.Reverse(p, entity.MovementExit, 4))
	assert.Equal(t, 14, p.Stock)
}

func TestReverse_EntradaYaConsumida(t *testing.T) {
	p := product(2)
	assert.ErrorIs(t, inventory.Reverse(p, entity.MovementEntry, 5), domain.ErrInsufficientStock)
	assert.Equal(t, 2, p.Stock)
}

// ENTRY(5) -> EXIT(3) sobre stock 15: revertir deja 10, aplicar deja 7.
func TestReplace_EntradaPorSalida(t *testing.T) {
	p := product(15)
	require.NoError(t, inventory.Replace(p, entity.MovementEntry, 5, entity.MovementExit, 3))
	assert.Equal(t, 7, p.Stock)
}

func TestReplace_SalidaExcedeStockRevertido(t *testing.T) {
	p := product(15)
	err := inventory.Replace(p, entity.MovementEntry, 5, entity.MovementExit, 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 15, p.Stock)
}

func TestReplace_CantidadInvalida(t *testing.T) {
	p := product(15)
	assert.ErrorIs(t, inventory.Replace(p, entity.MovementEntry, 5, entity.MovementEntry, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, inventory.Replace(p, entity.MovementEntry, 5, "AJUSTE", 1), domain.ErrInvalidMovementKind)
	assert.Equal(t, 15, p.Stock)
}

// Cualquier secuencia de operaciones deja el stock >= 0, fallen o no.
func TestSecuenciaAleatoria_StockNuncaNegativo(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	p := product(r.Intn(20))
	for i := 0; i < 2000; i++ {
		q := r.Intn(15) - 2
		if r.Intn(2) == 0 {
			_ = inventory.ApplyEntry(p, q)
		} else {
			_ = inventory.ApplyExit(p, q)
		}
		require.GreaterOrEqual(t, p.Stock, 0, "iteración %d", i)
	}
}

func TestApplyEntry_DesbordeNoModifica(t *testing.T) {
	p := product(1)
	assert.ErrorIs(t, inventory.ApplyEntry(p, math.MaxInt), domain.ErrInvalidQuantity)
	assert.Equal(t, 1, p.Stock)

	p = product(inventory.MaxStock - 2)
	assert.ErrorIs(t, inventory.ApplyEntry(p, 3), domain.ErrInvalidQuantity)
	assert.Equal(t, inventory.MaxStock-2, p.Stock)

	require.NoError(t, inventory.ApplyEntry(p, 2))
	assert.Equal(t, inventory.MaxStock, p.Stock)
}

func TestApplyExit_CantidadSobreTope(t *testing.T) {
	p := product(10)
	assert.ErrorIs(t, inventory.ApplyExit(p, math.MaxInt), domain.ErrInvalidQuantity)
	assert.Equal(t, 10, p.Stock)
}

func TestReplace_DesbordeNoModifica(t *testing.T) {
	p := product(inventory.MaxStock - 1)
	err := inventory.Replace(p, entity.MovementExit, 1, entity.MovementEntry, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, inventory.MaxStock-1, p.Stock)

	assert.ErrorIs(t, inventory.Replace(p, entity.MovementEntry, 1, entity.MovementEntry, math.MaxInt), domain.ErrInvalidQuantity)
	assert.Equal(t, inventory.MaxStock-1, p.Stock)
}
