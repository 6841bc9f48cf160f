// Package excel exporta reportes tabulares a .xlsx.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/sitetrack-api/internal/application/analytics"
	"github.com/jhoicas/sitetrack-api/internal/application/dto"
)

var _ analytics.PerformanceExporter = (*PerformanceExporter)(nil)

const performanceSheet = "Desempeño"

var performanceHeaders = []string{"Nombre", "Email", "Rol", "Asignadas", "Completadas", "Pendientes", "Tasa (%)"}

// PerformanceExporter escribe el desempeño de empleados en una hoja de cálculo.
type PerformanceExporter struct{}

func NewPerformanceExporter() *PerformanceExporter { return &PerformanceExporter{} }

// ExportPerformance genera el libro con una fila por usuario, en el orden recibido.
func (e *PerformanceExporter) ExportPerformance(rows []dto.EmployeePerformanceDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", performanceSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	for i, h := range performanceHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(performanceSheet, cell, h); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(performanceSheet, 1, 1, style)
	}

	for i, r := range rows {
		values := []any{r.Name, r.Email, r.Role, r.TotalAssigned, r.Completed, r.Pending, r.CompletionRate}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(performanceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(performanceSheet, "A", "C", 28)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
