// Package pdf genera el kardex (historial de movimientos) de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + Código       │  KARDEX + Fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Inicial | Actual | Precio | Rotación              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Descripción | Entrada | Salida | Saldo│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorExit    = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// KardexGenerator implementa usecase.KardexGenerator usando Maroto v2.
type KardexGenerator struct {
	now func() time.Time
}

// NewKardexGenerator construye el generador.
func NewKardexGenerator() *KardexGenerator { return &KardexGenerator{now: time.Now} }

// KardexLine una fila del kardex con el saldo acumulado.
type KardexLine struct {
	Movement *entity.Movement
	Balance  int
}

// BuildLines calcula el saldo después de cada movimiento, partiendo del stock actual
// y recorriendo el historial hacia atrás. Devuelve también el saldo de apertura.
func BuildLines(product *entity.Product, movements []*entity.Movement) (opening int, lines []KardexLine) {
	lines = make([]KardexLine, len(movements))
	balance := product.Stock
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		lines[i] = KardexLine{Movement: m, Balance: balance}
		balance -= m.Kind.Effect(m.Quantity)
	}
	return balance, lines
}

// GenerateKardex genera el PDF y devuelve sus bytes.
func (g *KardexGenerator) GenerateKardex(
	_ context.Context,
	product *entity.Product,
	movements []*entity.Movement,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.Code, true).
		Build()

	m := maroto.New(cfg)

	opening, lines := BuildLines(product, movements)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(openingRow(opening))
	for _, r := range tableRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(movements))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p *entity.Product, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Código: "+p.Code+"   |   Categoría: "+nonEmpty(p.Category, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(p *entity.Product) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Size: 10, Top: 5}),
		)
	}
	return row.New(12).Add(
		cell("INVENTARIO INICIAL", strconv.Itoa(p.InitialStock)),
		cell("STOCK ACTUAL", strconv.Itoa(p.Stock)),
		cell("PRECIO UNITARIO", "$"+formatMoney(p.Price.StringFixed(2))),
		cell("ROTACIÓN", p.TurnoverFactor.StringFixed(4)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Entrada", 1, align.Right),
		h("Salida", 1, align.Right),
		h("Saldo", 2, align.Right),
	)
}

func openingRow(opening int) core.Row {
	return row.New(6).Add(
		col.New(10).Add(text.New("Saldo de apertura", props.Text{Size: 8, Style: fontstyle.Italic, Top: 1, Color: colorGray})),
		col.New(2).Add(text.New(strconv.Itoa(opening), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}

func tableRows(lines []KardexLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		m := l.Movement
		in, out := "", ""
		kindColor := colorPrimary
		if m.Kind == entity.MovementExit {
			out = strconv.Itoa(m.Quantity)
			kindColor = colorExit
		} else {
			in = strconv.Itoa(m.Quantity)
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(m.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(m.Kind.String(), props.Text{Size: 8, Align: align.Center, Top: 1, Color: kindColor})),
			col.New(5).Add(text.New(nonEmpty(m.Description, "-"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(in, props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(out, props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(strconv.Itoa(l.Balance), props.Text{Size: 8, Align: align.Right, Top: 1, Style: fontstyle.Bold})),
		))
	}
	return result
}

func totalsRow(movements []*entity.Movement) core.Row {
	var in, out int
	for _, m := range movements {
		if m.Kind == entity.MovementExit {
			out += m.Quantity
		} else {
			in += m.Quantity
		}
	}
	return row.New(10).Add(
		col.New(8).Add(text.New("Totales", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 2})),
		col.New(1).Add(text.New(strconv.Itoa(in), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2})),
		col.New(1).Add(text.New(strconv.Itoa(out), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2})),
		col.New(2),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en la parte entera y deja la coma decimal.
// Ej: "25000.50" → "25.000,50"
func formatMoney(s string) string {
	intPart, frac := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			intPart, frac = s[:i], s[i+1:]
			break
		}
	}
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+1)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
