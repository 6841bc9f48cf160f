package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/inventory"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// StockCheckUseCase compara cantidades planificadas contra el stock total de cada producto.
// El resultado son advertencias: nunca bloquea la creación de un proyecto.
type StockCheckUseCase struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
}

// NewStockCheckUseCase construye el caso de uso.
func NewStockCheckUseCase(productRepo repository.ProductRepository, stockRepo repository.StockRepository) *StockCheckUseCase {
	return &StockCheckUseCase{productRepo: productRepo, stockRepo: stockRepo}
}

// Check devuelve una advertencia por producto cuya cantidad planificada (sumando líneas) supera el stock.
// Un producto inexistente es ErrNotFound.
func (uc *StockCheckUseCase) Check(ctx context.Context, items []entity.ProjectLineItem) ([]dto.StockWarningDTO, error) {
	stock := make(map[string]entity.ProductWithStock, len(items))
	for _, it := range items {
		if _, ok := stock[it.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
		}
		entries, err := uc.stockRepo.ListByProduct(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		stock[it.ProductID] = entity.ProductWithStock{Product: *p, Stock: entries}
	}

	warnings := []dto.StockWarningDTO{}
	for _, s := range inventory.Shortfalls(items, stock) {
		warnings = append(warnings, dto.StockWarningDTO{
			ProductID:   s.ProductID,
			ProductName: s.Name,
			Planned:     s.Planned,
			Available:   s.Available,
			Message:     fmt.Sprintf("%s: planificado %s, disponible %s", s.Name, s.Planned.String(), s.Available.String()),
		})
	}
	return warnings, nil
}
