// Package pdf genera los reportes PDF de la API con Maroto v2.
//
// Layout del reporte de stock (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + aplicación  │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Categoría | Und | Stock | Mín   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: productos / con stock bajo / valor a precio venta  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-api/internal/application/usecase"
)

var _ usecase.StockReportGenerator = (*StockReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa usecase.StockReportGenerator usando Maroto v2.
type StockReportGenerator struct {
	appName string
}

// NewStockReportGenerator construye el generador; appName aparece en el encabezado y como autor.
func NewStockReportGenerator(appName string) *StockReportGenerator {
	return &StockReportGenerator{appName: appName}
}

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(
	ctx context.Context,
	title string,
	rows []usecase.StockReportRow,
	generatedAt time.Time,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(title, g.appName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin productos para mostrar.", props.Text{Size: 9, Align: align.Center, Top: 3, Color: colorGray}),
		)))
	}
	for _, r := range tableDetailRows(rows) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(summarize(rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte de stock: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, appName string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(appName, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Categoría", 3, align.Left),
		h("Und", 1, align.Center),
		h("Stock", 1, align.Right),
		h("Mínimo", 1, align.Right),
		h("P. venta", 1, align.Right),
	)
}

func tableDetailRows(rows []usecase.StockReportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		cell := props.Text{Size: 7.5, Top: 1, Left: 1, Right: 1}
		stock := cell
		stock.Align = align.Right
		if r.IsLowStock {
			stock.Style = fontstyle.Bold
			stock.Color = colorAlert
		}
		right := cell
		right.Align = align.Right
		center := cell
		center.Align = align.Center

		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(r.Code, cell)),
			col.New(3).Add(text.New(r.Name, cell)),
			col.New(3).Add(text.New(r.CategoryPath, cell)),
			col.New(1).Add(text.New(r.UnitSymbol, center)),
			col.New(1).Add(text.New(formatAmount(r.CurrentStock, 2), stock)),
			col.New(1).Add(text.New(formatAmount(r.MinStockLevel, 2), right)),
			col.New(1).Add(text.New("$"+formatAmount(r.SalePrice, 0), right)),
		))
	}
	return result
}

// reportSummary totales del pie del reporte.
type reportSummary struct {
	Products  int
	LowStock  int
	SaleValue decimal.Decimal
}

func summarize(rows []usecase.StockReportRow) reportSummary {
	s := reportSummary{Products: len(rows), SaleValue: decimal.Zero}
	for _, r := range rows {
		if r.IsLowStock {
			s.LowStock++
		}
		s.SaleValue = s.SaleValue.Add(r.CurrentStock.Mul(r.SalePrice))
	}
	return s
}

func summaryRow(s reportSummary) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string, c *props.Color) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1, Color: c})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(4).Add(
			label("Productos:"),
			label("Con stock bajo:"),
			label("Valor a precio de venta:"),
		),
		col.New(2).Add(
			value(fmt.Sprintf("%d", s.Products), nil),
			value(fmt.Sprintf("%d", s.LowStock), colorAlert),
			value("$"+formatAmount(s.SaleValue, 0), colorPrimary),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatAmount redondea a places decimales, agrupa miles con punto y usa coma decimal.
// Ej: 1234567.5 (2) → "1.234.567,50"
func formatAmount(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
