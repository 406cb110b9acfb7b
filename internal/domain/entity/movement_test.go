package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

func TestParseMovementKind(t *testing.T) {
	cases := map[string]entity.MovementKind{
		"ENTRY":   entity.MovementEntry,
		"entry":   entity.MovementEntry,
		" Entry ": entity.MovementEntry,
		"entrada": entity.MovementEntry,
		"EXIT":    entity.MovementExit,
		"exit":    entity.MovementExit,
		"Salida":  entity.MovementExit,
		"SALÍDA":  entity.MovementExit,
	}
	for in, want := range cases {
		got, err := entity.ParseMovementKind(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseMovementKind_Invalido(t *testing.T) {
	for _, in := range []string{"", "ADJUST", "transfer", "ENTRIES"} {
		_, err := entity.ParseMovementKind(in)
		assert.ErrorIs(t, err, domain.ErrInvalidMovementKind, in)
	}
}

func TestMovementKind_Effect(t *testing.T) {
	assert.Equal(t, 5, entity.MovementEntry.Effect(5))
	assert.Equal(t, -5, entity.MovementExit.Effect(5))
}

func TestProduct_IsLowStock_LimiteEstricto(t *testing.T) {
	p := &entity.Product{Stock: 9}
	assert.True(t, p.IsLowStock(10))
	p.Stock = 10
	assert.False(t, p.IsLowStock(10), "stock igual al umbral no es stock bajo")
}
