package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/inventory"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

// LedgerUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada operación deja exactamente un StockLog.
type LedgerUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	logRepo       repository.StockLogRepository
	recorder      MovementRecorder
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	logRepo repository.StockLogRepository,
	recorder MovementRecorder,
) *LedgerUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &LedgerUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		logRepo:       logRepo,
		recorder:      recorder,
	}
}

// MovementInput entrada común de las operaciones del libro.
// Para TRANSFER, WarehouseID es el origen y ToWarehouseID el destino.
type MovementInput struct {
	Action        string
	ProductID     string
	WarehouseID   string
	ToWarehouseID string
	Quantity      decimal.Decimal
	Reason        string
	UserID        string
}

// Register valida la entrada, abre una transacción, bloquea las filas de stock involucradas,
// aplica la operación y agrega el StockLog. Cualquier error deja el stock intacto.
func (uc *LedgerUseCase) Register(ctx context.Context, in MovementInput) (*dto.StockMovementResponse, error) {
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &entity.StockLog{
		ID:            uuid.New().String(),
		Action:        in.Action,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		ToWarehouseID: in.ToWarehouseID,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		UserID:        in.UserID,
		CreatedAt:     now,
	}

	var touched []*entity.StockEntry
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, logRepo repository.StockLogRepository) error {
		var err error
		switch in.Action {
		case entity.StockActionIN, entity.StockActionOUT:
			touched, err = applySingle(ctx, stockRepo, in, now)
		case entity.StockActionTRANSFER:
			touched, err = applyTransfer(ctx, stockRepo, in, now)
		}
		if err != nil {
			return err
		}
		return logRepo.Create(ctx, entry)
	})
	if err != nil {
		log.Warn().Err(err).
			Str("action", in.Action).
			Str("product_id", in.ProductID).
			Str("warehouse_id", in.WarehouseID).
			Msg("movimiento de inventario rechazado")
		return nil, err
	}

	uc.recorder.StockMovement(in.Action)
	log.Info().
		Str("action", in.Action).
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Str("to_warehouse_id", in.ToWarehouseID).
		Str("quantity", in.Quantity.String()).
		Str("user_id", in.UserID).
		Msg("movimiento de inventario registrado")

	resp := &dto.StockMovementResponse{Log: toStockLogResponse(entry)}
	for _, s := range touched {
		resp.Stock = append(resp.Stock, dto.StockEntryDTO{WarehouseID: s.WarehouseID, Quantity: s.Quantity})
	}
	return resp, nil
}

func (uc *LedgerUseCase) validate(ctx context.Context, in MovementInput) error {
	if in.ProductID == "" || in.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if err := inventory.ValidateQuantity(in.Quantity); err != nil {
		return err
	}
	switch in.Action {
	case entity.StockActionIN, entity.StockActionOUT:
		if in.ToWarehouseID != "" {
			return domain.ErrInvalidInput
		}
	case entity.StockActionTRANSFER:
		if in.ToWarehouseID == "" || in.ToWarehouseID == in.WarehouseID {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	for _, id := range []string{in.WarehouseID, in.ToWarehouseID} {
		if id == "" {
			continue
		}
		wh, err := uc.warehouseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// applySingle IN/OUT sobre una sola bodega.
func applySingle(ctx context.Context, stockRepo repository.StockRepository, in MovementInput, now time.Time) ([]*entity.StockEntry, error) {
	// Bloquea la fila en stock (SELECT FOR UPDATE) para evitar condiciones de carrera
	stock, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if in.Action == entity.StockActionIN {
		err = inventory.Add(stock, in.Quantity)
	} else {
		err = inventory.Remove(stock, in.Quantity)
	}
	if err != nil {
		return nil, err
	}
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	return []*entity.StockEntry{stock}, nil
}

// applyTransfer bloquea ambas filas en orden determinista, descuenta del origen y suma al destino.
func applyTransfer(ctx context.Context, stockRepo repository.StockRepository, in MovementInput, now time.Time) ([]*entity.StockEntry, error) {
	firstID, secondID := inventory.LockOrder(in.WarehouseID, in.ToWarehouseID)
	first, err := stockRepo.GetForUpdate(ctx, in.ProductID, firstID)
	if err != nil {
		return nil, err
	}
	second, err := stockRepo.GetForUpdate(ctx, in.ProductID, secondID)
	if err != nil {
		return nil, err
	}
	from, to := first, second
	if firstID != in.WarehouseID {
		from, to = second, first
	}
	if err := inventory.Transfer(from, to, in.Quantity); err != nil {
		return nil, err
	}
	from.UpdatedAt = now
	to.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, from); err != nil {
		return nil, err
	}
	if err := stockRepo.Upsert(ctx, to); err != nil {
		return nil, err
	}
	return []*entity.StockEntry{from, to}, nil
}

// ListLogs devuelve el historial del libro, del más reciente al más antiguo.
func (uc *LedgerUseCase) ListLogs(ctx context.Context, filter repository.StockLogFilter) (*dto.StockLogListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	logs, err := uc.logRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, toStockLogResponse(l))
	}
	return &dto.StockLogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

func toStockLogResponse(l *entity.StockLog) dto.StockLogResponse {
	return dto.StockLogResponse{
		ID:            l.ID,
		Action:        l.Action,
		ProductID:     l.ProductID,
		WarehouseID:   l.WarehouseID,
		ToWarehouseID: l.ToWarehouseID,
		Quantity:      l.Quantity,
		Reason:        l.Reason,
		PerformedBy:   l.UserID,
		CreatedAt:     l.CreatedAt,
	}
}
