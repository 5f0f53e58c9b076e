// Package pdf genera el informe de stock con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Empresa | Roca | Tipo | Acabado | Saldo (m²)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: rocas listadas / saldo total                       │
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

	"github.com/jhoicas/rochas-api/internal/application/dto"
	"github.com/jhoicas/rochas-api/internal/application/ports"
)

var _ ports.StockReportRenderer = (*StockReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 74, Green: 55, Blue: 40}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRowAlt  = &props.Color{Red: 244, Green: 240, Blue: 234}
)

// StockReportGenerator implementa ports.StockReportRenderer usando Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// RenderStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) RenderStockReport(_ context.Context, report ports.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report ports.StockReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Empresa", 3, align.Left),
		h("Rocha", 3, align.Left),
		h("Tipo", 2, align.Left),
		h("Acabamento", 2, align.Left),
		h("Saldo", 2, align.Right),
	)
}

func tableRows(items []dto.StockItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		r := row.New(7).Add(
			cell(it.CompanyName, 3, align.Left),
			cell(titleCase(it.Name), 3, align.Left),
			cell(nonEmpty(titleCase(it.Type), "-"), 2, align.Left),
			cell(nonEmpty(titleCase(it.Finish), "-"), 2, align.Left),
			cell(formatQuantity(it.Balance), 2, align.Right),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorRowAlt})
		}
		result = append(result, r)
	}
	if len(result) == 0 {
		result = append(result, row.New(10).Add(col.New(12).Add(
			text.New("Nenhuma rocha cadastrada.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	return result
}

func totalsRow(items []dto.StockItemResponse) core.Row {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Balance)
	}
	return row.New(10).Add(
		col.New(6).Add(text.New(fmt.Sprintf("%d rochas", len(items)), props.Text{
			Size: 9, Top: 2, Color: colorGray,
		})),
		col.New(6).Add(text.New("Saldo total: "+formatQuantity(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQuantity usa coma decimal y hasta 4 decimales sin ceros a la derecha.
// Ej: 12.5 → "12,5", 1000 → "1000".
func formatQuantity(d decimal.Decimal) string {
	return strings.Replace(d.Round(4).String(), ".", ",", 1)
}

// titleCase "branco siena" → "Branco Siena".
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
