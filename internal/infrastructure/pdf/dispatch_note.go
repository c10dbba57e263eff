// Package pdf implementa la generación de la remisión (nota de entrega) de un
// despacho a agricultor beneficiario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Programa + N° Remisión + Fecha                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BENEFICIARIO: código + notas del despacho                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Componente | Costo Unit. | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL DESPACHO                                          │
//	│  FOOTER: leyenda + firmas entrega/recibe                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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

	"github.com/tu-usuario/solar-inventario/internal/application/dispatch"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 105, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ dispatch.NotePDFGenerator = (*DispatchNoteGenerator)(nil)

// DispatchNoteGenerator implementa dispatch.NotePDFGenerator usando Maroto v2.
type DispatchNoteGenerator struct{}

// NewDispatchNoteGenerator construye el generador.
func NewDispatchNoteGenerator() *DispatchNoteGenerator { return &DispatchNoteGenerator{} }

// DeliveryNote genera el PDF de la remisión y devuelve sus bytes.
func (g *DispatchNoteGenerator) DeliveryNote(d *entity.FarmerDispatch, itemNames map[int64]string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de Despacho", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(beneficiaryRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(d.Items, itemNames) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(d))

	m.AddRows(line.NewRow(3))
	for _, r := range footerRows() {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remisión: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del programa (izq) y número + fecha de la remisión (der).
func headerRow(d *entity.FarmerDispatch) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("PROGRAMA DE BOMBEO SOLAR", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario de componentes", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REMISIÓN DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %d", d.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+d.DispatchDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// beneficiaryRow: código del beneficiario y notas del despacho.
func beneficiaryRow(d *entity.FarmerDispatch) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("AGRICULTOR BENEFICIARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(d.FarmerBeneficiaryID, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Estado: %s   |   Notas: %s",
				d.Status, nonEmpty(d.Notes, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de componentes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Componente", 6, align.Left),
		h("Costo Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableLineRows: una fila por línea del despacho.
func tableLineRows(lines []*entity.FarmerDispatchItem, itemNames map[int64]string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		unitCost, totalCost := "—", "—"
		if l.UnitCost != nil {
			unitCost = "$" + formatMoney(l.UnitCost.StringFixed(0))
		}
		if l.TotalCost != nil {
			totalCost = "$" + formatMoney(l.TotalCost.StringFixed(0))
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				itemNames[l.InventoryID],
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				unitCost,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				totalCost,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: valor total del despacho alineado a la derecha.
func totalRow(d *entity.FarmerDispatch) core.Row {
	total := "—"
	if d.TotalValue != nil {
		total = "$" + formatMoney(d.TotalValue.StringFixed(0))
	}
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: leyenda y líneas de firma de entrega/recepción.
func footerRows() []core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 10,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 16, Color: colorGray,
			}),
		)
	}
	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(
				"El beneficiario declara recibir los componentes relacionados en buen estado. "+
					"Conserve esta remisión como soporte de entrega del programa.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		)),
		row.New(22).Add(
			sig("Entrega (bodega)"),
			sig("Recibe (beneficiario)"),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
