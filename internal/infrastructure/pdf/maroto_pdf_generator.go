// Package pdf implementa la representación gráfica de un documento de facturación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento   │  N° Documento + Fechas       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + email + dirección                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Categoría | P.Unit | IVA | Total│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Estado + notas + QR                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/domain/entity"
)

var _ appbilling.DocumentPDFRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const pdfDateLayout = "2006-01-02"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentPDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los montos se formatean con separador
// de miles según el idioma indicado.
func NewMarotoPDFGenerator(lang language.Tag) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(lang)}
}

// RenderDocumentPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderDocumentPDF(_ context.Context, doc *entity.BillingDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(string(doc.BillingType)+" "+doc.DocumentNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(doc.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de documento (izq) y número + fechas (der).
func (g *MarotoPDFGenerator) headerRow(doc *entity.BillingDocument) core.Row {
	dates := "Fecha: " + doc.BillingDate.Format(pdfDateLayout)
	if doc.DueDate != nil {
		dates += "   Vence: " + doc.DueDate.Format(pdfDateLayout)
	}
	sub := ""
	if doc.PricingDate != nil {
		sub += "Precios al " + doc.PricingDate.Format(pdfDateLayout)
	}
	if doc.ServiceRenderedDate != nil {
		if sub != "" {
			sub += "   "
		}
		sub += "Servicio prestado " + doc.ServiceRenderedDate.Format(pdfDateLayout)
	}

	return row.New(22).Add(
		col.New(7).Add(
			text.New(string(doc.BillingType), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(sub, props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.DocumentNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(dates, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("Estado: "+string(doc.Status), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente (todos opcionales).
func customerRow(doc *entity.BillingDocument) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(valueOr(doc.CustomerName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Dirección: %s",
				valueOr(doc.CustomerEmail, "—"),
				valueOr(doc.CustomerAddress, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("Categoría", 2, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Total", 2, align.Right),
	)
}

// itemRows: una fila por ítem, en el orden del documento.
func (g *MarotoPDFGenerator) itemRows(items []entity.BillingItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin ítems", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Name
		if it.Description != nil && *it.Description != "" {
			name += " (" + *it.Description + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				string(it.Category),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.TaxRate.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				g.money(it.TotalPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(doc *entity.BillingDocument) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, a align.Type, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: a,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impuestos:", 7),
			grand("TOTAL:", align.Right, 13),
		),
		col.New(3).Add(
			value(g.money(doc.Subtotal), 1),
			value(g.money(doc.TotalTax), 7),
			grand(g.money(doc.TotalAmount), align.Right, 13),
		),
	)
}

// footerRows: notas y QR con la referencia del documento.
func (g *MarotoPDFGenerator) footerRows(doc *entity.BillingDocument) []core.Row {
	rows := make([]core.Row, 0, 2)
	if doc.Notes != nil && *doc.Notes != "" {
		rows = append(rows, row.New(12).Add(col.New(12).Add(
			text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(*doc.Notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}

	ref := fmt.Sprintf("%s|%s|%s", doc.DocumentNumber, doc.TotalAmount.StringFixed(2), doc.ID)
	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Referencia: "+doc.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Generado: "+time.Now().UTC().Format(time.RFC3339), props.Text{
				Size: 7, Top: 10, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func valueOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

// money formatea un monto con dos decimales y separador de miles del idioma configurado.
func (g *MarotoPDFGenerator) money(v decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", v.Round(2).InexactFloat64())
}
