// Package pdf genera el reporte de existencias en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Nombre | Almacén | Estado | Cant. | Valor   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: unidades y valor por almacén + total general       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa usecase.StockReportRenderer usando Maroto v2.
type StockReportGenerator struct {
	title string
}

// NewStockReportGenerator construye el generador; title aparece en la cabecera y en los metadatos.
func NewStockReportGenerator(title string) *StockReportGenerator {
	if title == "" {
		title = "Reporte de existencias"
	}
	return &StockReportGenerator{title: title}
}

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) RenderStockReport(_ context.Context, rep inventory.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(rep.Products) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("Sin productos registrados", props.Text{
			Align: align.Center, Top: 2, Color: colorGray,
		}))))
	}
	for _, p := range rep.Products {
		m.AddRows(productRow(p))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range summaryRows(rep) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, rep inventory.StockReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(strings.ToUpper(title), props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d productos", len(rep.Products)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Nombre", 3, align.Left),
		h("Almacén", 2, align.Left),
		h("Estado", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

func productRow(p *entity.ProductView) core.Row {
	qtyProps := props.Text{Size: 8, Align: align.Right, Top: 1}
	if p.Quantity == 0 {
		qtyProps.Color = colorDanger
	}
	cell := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Top: 1}))
	}
	return row.New(6).Add(
		cell(p.Code, 2),
		cell(p.Name, 3),
		cell(p.WarehouseName, 2),
		cell(p.Status, 2),
		col.New(1).Add(text.New(fmt.Sprintf("%d", p.Quantity), qtyProps)),
		col.New(2).Add(text.New(formatMoney(p.UnitValue.Mul(decimal.NewFromInt(p.Quantity))), props.Text{
			Size: 8, Align: align.Right, Top: 1,
		})),
	)
}

func summaryRows(rep inventory.StockReport) []core.Row {
	rows := make([]core.Row, 0, len(rep.Warehouses)+1)
	for _, w := range rep.Warehouses {
		rows = append(rows, row.New(6).Add(
			col.New(7).Add(text.New(w.WarehouseName, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(fmt.Sprintf("%d unidades", w.Units), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(w.Value), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	rows = append(rows, row.New(8).Add(
		col.New(7).Add(text.New("TOTAL GENERAL", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2, Color: colorPrimary})),
		col.New(3).Add(text.New(fmt.Sprintf("%d unidades", rep.Units), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2})),
		col.New(2).Add(text.New(formatMoney(rep.Value), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2})),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney formato local: puntos de miles y coma decimal.
// Ej: 1234567.5 → "$ 1.234.567,50"
func formatMoney(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if v.IsNegative() {
		sign = "-"
	}
	return "$ " + sign + string(buf) + "," + frac
}
