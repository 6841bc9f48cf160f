package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/catalog"
)

// Estados de fila del reporte de importación.
const (
	ImportStatusSuccess = "success"
	ImportStatusFailed  = "failed"
)

const importLockKey = "catalog:import"

// ProductCreator puerto hacia la creación de productos del catálogo.
type ProductCreator interface {
	Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error)
}

// ImportUseCase importación masiva de productos desde CSV.
// Cada fila se valida y se envía de forma independiente y secuencial; un fallo no aborta el lote.
type ImportUseCase struct {
	creator  ProductCreator
	locker   ImportLocker
	recorder MovementRecorder
}

// NewImportUseCase construye el caso de uso. locker y recorder pueden ser nil.
func NewImportUseCase(creator ProductCreator, locker ImportLocker, recorder MovementRecorder) *ImportUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ImportUseCase{creator: creator, locker: locker, recorder: recorder}
}

// columnas reconocidas del encabezado (sin distinguir mayúsculas).
var importColumns = []string{"name", "sku", "category", "description", "steps"}

// Import lee el CSV (encabezado obligatorio con al menos la columna name) y crea un producto por fila.
// row en el reporte es el índice 1-based de la fila de datos.
func (uc *ImportUseCase) Import(ctx context.Context, r io.Reader) (*dto.ImportReport, error) {
	if uc.locker != nil {
		release, err := uc.locker.Acquire(ctx, importLockKey)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("CSV vacío: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("leer encabezado: %w", domain.ErrInvalidInput)
	}
	cols := indexColumns(header)
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("el encabezado no tiene la columna name: %w", domain.ErrInvalidInput)
	}

	report := &dto.ImportReport{Rows: []dto.ImportRowResult{}}
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("leer CSV: %w", err)
			}
			uc.addRow(report, dto.ImportRowResult{Row: row, Status: ImportStatusFailed, Error: perr.Err.Error()})
			continue
		}
		uc.addRow(report, uc.importRow(ctx, row, cols, record))
	}

	log.Info().
		Int("total", report.Total).
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Msg("importación de productos finalizada")
	return report, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, row int, cols map[string]int, record []string) dto.ImportRowResult {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := field("name")
	result := dto.ImportRowResult{Row: row, Name: name}
	if name == "" {
		result.Status = ImportStatusFailed
		result.Error = domain.ErrNameRequired.Error()
		return result
	}

	req := dto.CreateProductRequest{
		Name:        name,
		SKU:         field("sku"),
		Category:    field("category"),
		Description: field("description"),
	}
	for _, s := range catalog.StepsFromTitles(field("steps")) {
		req.Steps = append(req.Steps, dto.ProcessStepDTO{Title: s.Title, Sequence: s.Sequence, RequiredPhotos: s.RequiredPhotos})
	}

	created, err := uc.creator.Create(ctx, req)
	if err != nil {
		result.Status = ImportStatusFailed
		result.Error = err.Error()
		return result
	}
	result.Status = ImportStatusSuccess
	result.ProductID = created.ID
	return result
}

func (uc *ImportUseCase) addRow(report *dto.ImportReport, r dto.ImportRowResult) {
	report.Total++
	if r.Status == ImportStatusSuccess {
		report.Succeeded++
	} else {
		report.Failed++
	}
	uc.recorder.ImportRow(r.Status)
	report.Rows = append(report.Rows, r)
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, known := range importColumns {
			if h == known {
				if _, dup := cols[h]; !dup {
					cols[h] = i
				}
			}
		}
	}
	return cols
}
