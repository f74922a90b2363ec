// Package pdf genera el Bon de Mouvement de Matériel impreso.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización          │  N° BMM + tipo + estado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTES: Emisor/Receptor | Departamento | Equipo | Fechas   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Designación | Cant. | Stock avant | après  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  OBSERVACIONES                                              │
//	│  FIRMAS: Emisor | Magasinier | Validado por       + QR      │
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
	"golang.org/x/text/number"

	"github.com/jhoicas/gestion-prep/internal/application/report"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

var _ report.BMMPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDraft   = &props.Color{Red: 230, Green: 126, Blue: 34}
	colorValid   = &props.Color{Red: 39, Green: 174, Blue: 96}
	colorCancel  = &props.Color{Red: 192, Green: 57, Blue: 43}
)

var kindLabels = map[string]string{
	entity.MovementKindEntry:     "Entrée",
	entity.MovementKindExitFinal: "Sortie définitive",
	entity.MovementKindExitLoan:  "Sortie en prêt",
}

var statusLabels = map[string]string{
	entity.MovementStatusDraft:     "Brouillon",
	entity.MovementStatusValidated: "Validé",
	entity.MovementStatusCancelled: "Annulé",
}

// frPrinter formatea cantidades con la convención francesa (coma decimal, espacio de miles).
var frPrinter = message.NewPrinter(language.French)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.BMMPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateMovementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateMovementPDF(_ context.Context, doc report.BMMDocument) ([]byte, error) {
	if doc.Movement == nil {
		return nil, fmt.Errorf("pdf: movimiento vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de Mouvement de Matériel "+doc.Movement.Number, true).
		WithAuthor(nonEmpty(doc.Organization, "Gestion PREP"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRows(doc)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(doc.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if doc.Movement.Remark != "" {
		m.AddRows(remarkRow(doc.Movement.Remark))
	}
	m.AddRows(row.New(6))
	m.AddRows(signatureRow(doc.Movement))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización (izq) y N° BMM + tipo + estado (der).
func headerRow(doc report.BMMDocument) core.Row {
	mv := doc.Movement
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.Organization, "Gestion PREP"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("BON DE MOUVEMENT DE MATÉRIEL", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(mv.Number, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Top: 1,
			}),
			text.New(nonEmpty(kindLabels[mv.Kind], "—"), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorPrimary,
			}),
			text.New(nonEmpty(statusLabels[mv.Status], mv.Status), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 13, Color: statusColor(mv.Status),
			}),
		),
	)
}

// partiesRows: emisor/receptor, departamento, equipo y fechas.
func partiesRows(doc report.BMMDocument) []core.Row {
	mv := doc.Movement
	equipment := "—"
	if doc.Equipment != nil {
		equipment = doc.Equipment.Tag
		if doc.Equipment.Description != "" {
			equipment += " - " + doc.Equipment.Description
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Top: 6})
	}
	return []core.Row{
		row.New(12).Add(col.New(12).Add(
			label("OBJET"),
			value(nonEmpty(mv.Description, "—")),
		)),
		row.New(12).Add(
			col.New(4).Add(label("ÉMETTEUR / RÉCEPTEUR"), value(nonEmpty(mv.Counterparty, "—"))),
			col.New(4).Add(label("DÉPARTEMENT / SERVICE"), value(nonEmpty(mv.Department, "—"))),
			col.New(4).Add(label("ÉQUIPEMENT"), value(equipment)),
		),
		row.New(12).Add(
			col.New(4).Add(label("DATE DE CRÉATION"), value(formatDate(&mv.CreatedAt))),
			col.New(4).Add(label("RETOUR PRÉVU"), value(formatDate(mv.ExpectedReturnDate))),
			col.New(4).Add(label("RETOUR EFFECTIF"), value(formatDate(mv.ActualReturnDate))),
		),
	}
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Code", 2, align.Left),
		h("Désignation", 4, align.Left),
		h("Quantité", 2, align.Right),
		h("Stock avant", 2, align.Right),
		h("Stock après", 2, align.Right),
	)
}

// tableLineRows: una fila por línea; los snapshots quedan vacíos hasta la validación.
func tableLineRows(lines []report.BMMLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		code, designation := "?", "Article "+l.Line.ArticleID
		if l.Article != nil {
			code, designation = l.Article.Code, l.Article.Description
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(code, 2, align.Left),
			cell(designation, 4, align.Left),
			cell(FormatQuantity(l.Line.Quantity), 2, align.Right),
			cell(formatSnapshot(l.Line.StockBefore), 2, align.Right),
			cell(formatSnapshot(l.Line.StockAfter), 2, align.Right),
		))
	}
	return result
}

func remarkRow(remark string) core.Row {
	return row.New(14).Add(col.New(12).Add(
		text.New("REMARQUE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		text.New(remark, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

// signatureRow: recuadros de firma y QR con el número del BMM.
func signatureRow(mv *entity.Movement) core.Row {
	box := func(title, who string) core.Col {
		return col.New(3).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1}),
			text.New(who, props.Text{Size: 8, Align: align.Center, Top: 6, Color: colorGray}),
			text.New("______________________", props.Text{Size: 8, Align: align.Center, Top: 24}),
		)
	}
	validated := ""
	if mv.ValidatedBy != "" {
		validated = mv.ValidatedBy + " - " + formatDate(mv.ValidatedAt)
	}
	return row.New(35).Add(
		box("Émetteur", mv.CreatedBy),
		box("Magasinier", ""),
		box("Validé par", validated),
		col.New(3).Add(code.NewQr(mv.Number, props.Rect{Percent: 80, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(status string) *props.Color {
	switch status {
	case entity.MovementStatusValidated:
		return colorValid
	case entity.MovementStatusCancelled:
		return colorCancel
	default:
		return colorDraft
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}

func formatSnapshot(d *decimal.Decimal) string {
	if d == nil {
		return "—"
	}
	return FormatQuantity(*d)
}

// FormatQuantity escribe una cantidad con la convención francesa: "1 234,5".
func FormatQuantity(d decimal.Decimal) string {
	return frPrinter.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}
