// Package pdf genera el reporte de avance de un proyecto (sitio).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del sitio + cliente │ Estado + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Categoría / Ubicación / Líder / Fechas               │
//	│  AVANCE GLOBAL: completadas / total (%)                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cant. | Completadas | Total | %           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Seq | Paso | Estado | Asignado | Fotos               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
)

var _ project.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Color{Red: 0, Green: 70, Blue: 127}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa project.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

// GenerateProjectReport genera el PDF del proyecto y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateProjectReport(details *dto.ProjectDetailsResponse) ([]byte, error) {
	if details == nil {
		return nil, fmt.Errorf("pdf: proyecto nil")
	}
	p := details.Project

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de avance - "+p.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(p, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(p))
	m.AddRows(progressRow(details.Progress))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("AVANCE POR PRODUCTO"))
	m.AddRows(tableHeader([]column{
		{"Producto", 5, align.Left}, {"Cant.", 2, align.Right}, {"Completadas", 2, align.Center},
		{"Total", 1, align.Center}, {"%", 2, align.Right},
	}))
	m.AddRows(lineItemRows(p.LineItems)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("TAREAS"))
	m.AddRows(tableHeader([]column{
		{"Línea", 1, align.Center}, {"Seq", 1, align.Center}, {"Paso", 4, align.Left},
		{"Estado", 2, align.Center}, {"Asignado", 2, align.Left}, {"Fotos", 2, align.Center},
	}))
	m.AddRows(taskRows(details.Tasks)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(p dto.ProjectResponse, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Cliente: "+nonEmpty(p.Client, "—"), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("REPORTE DE AVANCE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.ToUpper(p.Status), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func infoRow(p dto.ProjectResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Categoría: %s   |   Ubicación: %s",
				p.Category, nonEmpty(p.Location, "—"),
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
			text.New(fmt.Sprintf("Líder: %s   |   Inicio: %s   |   Entrega: %s",
				nonEmpty(p.LeaderName, p.LeaderID), formatDate(p.StartDate), formatDate(p.Deadline),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func progressRow(pr dto.ProgressDTO) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("AVANCE GLOBAL: %d de %d tareas (%d%%)", pr.Completed, pr.Total, pr.Percent),
				props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

type column struct {
	label string
	size  int
	align align.Type
}

// tableHeader cabecera con fondo de color.
func tableHeader(cols []column) core.Row {
	r := row.New(8).WithStyle(&props.Cell{BackgroundColor: colorHeader})
	for _, c := range cols {
		r = r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func lineItemRows(items []dto.LineItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, li := range items {
		pr := dto.ProgressDTO{}
		if li.Progress != nil {
			pr = *li.Progress
		}
		result = append(result, row.New(7).Add(
			cell(nonEmpty(li.ProductName, li.ProductID), 5, align.Left),
			cell(li.PlannedQuantity.String(), 2, align.Right),
			cell(fmt.Sprint(pr.Completed), 2, align.Center),
			cell(fmt.Sprint(pr.Total), 1, align.Center),
			cell(fmt.Sprintf("%d%%", pr.Percent), 2, align.Right),
		))
	}
	return result
}

func taskRows(tasks []dto.TaskResponse) []core.Row {
	result := make([]core.Row, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, row.New(7).Add(
			cell(fmt.Sprint(t.LineIndex+1), 1, align.Center),
			cell(fmt.Sprint(t.Sequence), 1, align.Center),
			cell(t.Title, 4, align.Left),
			cell(t.Status, 2, align.Center),
			cell(nonEmpty(t.AssignedTo, "—"), 2, align.Left),
			cell(fmt.Sprintf("%d/%d", len(t.Photos), len(t.RequiredPhotos)), 2, align.Center),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}
