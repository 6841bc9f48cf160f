package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo        repository.WarehouseRepository
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	repo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, stockRepo: stockRepo, productRepo: productRepo}
}

// Create crea una nueva bodega.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  strings.TrimSpace(in.Location),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	log.Info().Str("warehouse_id", w.ID).Msg("bodega creada")
	return toWarehouseResponse(w), nil
}

// GetByID obtiene una bodega con el detalle de stock por producto.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	entries, err := uc.stockRepo.ListByWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toWarehouseResponse(w)
	resp.Stock = make([]dto.WarehouseItem, 0, len(entries))
	for _, e := range entries {
		item := dto.WarehouseItem{ProductID: e.ProductID, Quantity: e.Quantity}
		if p, err := uc.productRepo.GetByID(ctx, e.ProductID); err == nil && p != nil {
			item.ProductName = p.Name
			item.SKU = p.SKU
		}
		resp.Stock = append(resp.Stock, item)
	}
	return resp, nil
}

// Update actualiza nombre o ubicación.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrNameRequired
		}
		w.Name = name
	}
	if in.Location != nil {
		w.Location = strings.TrimSpace(*in.Location)
	}
	w.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina una bodega vacía; con existencias positivas devuelve ErrConflict.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	entries, err := uc.stockRepo.ListByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Quantity.IsPositive() {
			return domain.ErrConflict
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("warehouse_id", id).Msg("bodega eliminada")
	return nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
