package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/catalog"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/inventory"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo. El stock se maneja vía el libro de inventario.
type ProductUseCase struct {
	repo          repository.ProductRepository
	stockRepo     repository.StockRepository
	warehouseRepo repository.WarehouseRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	stockRepo repository.StockRepository,
	warehouseRepo repository.WarehouseRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo, warehouseRepo: warehouseRepo}
}

// Create crea un nuevo producto. Sin SKU se genera uno desde el nombre; los pasos se renumeran 1..N.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	sku := catalog.NormalizeSKU(in.SKU)
	if sku == "" {
		sku = catalog.GenerateSKU(name)
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	steps, err := catalog.NormalizeSteps(stepsFromDTO(in.Steps))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         sku,
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Steps:       steps,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	log.Info().Str("product_id", product.ID).Str("sku", product.SKU).Int("steps", len(steps)).Msg("producto creado")
	return uc.toResponse(ctx, product, nil), nil
}

// GetByID obtiene un producto con sus existencias por bodega.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.stockRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, product, stock), nil
}

// Update actualiza nombre, SKU, categoría, descripción o pasos. No toca el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		product.Name = name
	}
	if in.SKU != nil {
		sku := catalog.NormalizeSKU(*in.SKU)
		if sku == "" {
			return nil, domain.ErrInvalidInput
		}
		if sku != product.SKU {
			other, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, domain.ErrDuplicate
			}
		}
		product.SKU = sku
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Steps != nil {
		steps, err := catalog.NormalizeSteps(stepsFromDTO(*in.Steps))
		if err != nil {
			return nil, err
		}
		product.Steps = steps
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	stock, err := uc.stockRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, product, stock), nil
}

// List lista productos (búsqueda por nombre o SKU) con su stock total.
func (uc *ProductUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{Search: search, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		stock, err := uc.stockRepo.ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *uc.toResponse(ctx, p, stock))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto (irreversible). Falla con ErrConflict si un proyecto lo usa.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) toResponse(ctx context.Context, p *entity.Product, stock []entity.StockEntry) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Steps:       StepsToDTO(p.Steps),
		Stock:       make([]dto.StockEntryDTO, 0, len(stock)),
		TotalStock:  inventory.Total(stock),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, s := range stock {
		entry := dto.StockEntryDTO{WarehouseID: s.WarehouseID, Quantity: s.Quantity}
		if wh, err := uc.warehouseRepo.GetByID(ctx, s.WarehouseID); err == nil && wh != nil {
			entry.WarehouseName = wh.Name
		}
		resp.Stock = append(resp.Stock, entry)
	}
	return resp
}

func stepsFromDTO(in []dto.ProcessStepDTO) []entity.ProcessStep {
	out := make([]entity.ProcessStep, 0, len(in))
	for _, s := range in {
		out = append(out, entity.ProcessStep{
			Title:          s.Title,
			Description:    s.Description,
			Sequence:       s.Sequence,
			RequiredPhotos: s.RequiredPhotos,
		})
	}
	return out
}

// StepsToDTO convierte los pasos del dominio al formato de respuesta.
func StepsToDTO(steps []entity.ProcessStep) []dto.ProcessStepDTO {
	out := make([]dto.ProcessStepDTO, 0, len(steps))
	for _, s := range steps {
		photos := s.RequiredPhotos
		if photos == nil {
			photos = []string{}
		}
		out = append(out, dto.ProcessStepDTO{
			Title:          s.Title,
			Description:    s.Description,
			Sequence:       s.Sequence,
			RequiredPhotos: photos,
		})
	}
	return out
}
