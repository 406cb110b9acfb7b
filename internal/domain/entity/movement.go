package entity

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

// MovementKind tipo de movimiento de inventario (value object).
type MovementKind string

const (
	MovementEntry MovementKind = "ENTRY" // entrada
	MovementExit  MovementKind = "EXIT"  // salida
)

// ParseMovementKind normaliza el tipo recibido (sin distinguir mayúsculas ni tildes).
// Acepta también los alias ENTRADA / SALIDA.
func ParseMovementKind(s string) (MovementKind, error) {
	switch foldKind(s) {
	case "ENTRY", "ENTRADA":
		return MovementEntry, nil
	case "EXIT", "SALIDA":
		return MovementExit, nil
	}
	return "", domain.ErrInvalidMovementKind
}

// Effect devuelve el efecto con signo de una cantidad sobre el stock.
func (k MovementKind) Effect(quantity int) int {
	if k == MovementExit {
		return -quantity
	}
	return quantity
}

func (k MovementKind) String() string { return string(k) }

func foldKind(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// Movement representa una entrada o salida de stock de un producto.
type Movement struct {
	ID          string
	ProductID   string
	Kind        MovementKind
	Quantity    int // siempre > 0; el signo lo da Kind
	Description string
	CreatedAt   time.Time
}
