package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// LedgerTxRunner ejecuta fn dentro de una transacción con un repositorio de
// libros atado a la tx, para operaciones que necesitan bloqueo de fila.
type LedgerTxRunner interface {
	Run(ctx context.Context, fn func(ledgers repository.LedgerRepository) error) error
}

// LotInput un lote a agregar: fecha de vencimiento YYYY-MM-DD y cantidad.
type LotInput struct {
	ExpiryDate string
	Qty        decimal.Decimal
}

// StockUseCase casos de uso de los libros de stock por producto.
// El libro de un par (usuario, producto) es un documento único que se crea
// perezosamente en la primera entrada de stock.
type StockUseCase struct {
	ledgers  repository.LedgerRepository
	catalogs repository.CatalogRepository
	tx       LedgerTxRunner
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(ledgers repository.LedgerRepository, catalogs repository.CatalogRepository, tx LedgerTxRunner) *StockUseCase {
	return &StockUseCase{ledgers: ledgers, catalogs: catalogs, tx: tx}
}

// AddLot agrega un lote único de stock al producto.
func (uc *StockUseCase) AddLot(ctx context.Context, userID, productID string, in dto.AddLotRequest) (*dto.LotListResponse, error) {
	return uc.AddLots(ctx, userID, productID, []LotInput{{ExpiryDate: in.ExpiryDate, Qty: in.Qty}})
}

// AddLots agrega un lote de entradas al libro del producto en un único guardado
// de documento. Valida todas las entradas antes de escribir: una inválida
// rechaza el lote completo. Si dos requests concurrentes ven el libro ausente,
// el perdedor de la creación reintenta como append.
func (uc *StockUseCase) AddLots(ctx context.Context, userID, productID string, entries []LotInput) (*dto.LotListResponse, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrInvalidInput)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: el lote de entradas está vacío", domain.ErrInvalidInput)
	}
	now := time.Now()
	lots := make([]entity.StockLot, 0, len(entries))
	for i, e := range entries {
		expiry, err := time.Parse(dateLayout, e.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: entrada %d: expiry_date debe ser una fecha YYYY-MM-DD", domain.ErrInvalidInput, i+1)
		}
		if !e.Qty.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: entrada %d: qty debe ser mayor que 0", domain.ErrInvalidInput, i+1)
		}
		lots = append(lots, entity.StockLot{
			ID:          uuid.New().String(),
			ExpiryDate:  expiry,
			InitialQty:  e.Qty,
			Qty:         e.Qty,
			UsageEvents: []entity.UsageEvent{},
		})
	}

	ledger, err := uc.ledgers.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = &entity.StockLedger{
			UserID:    userID,
			ProductID: productID,
			Lots:      lots,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = uc.ledgers.Create(ctx, ledger)
		if err == nil {
			return toLotList(ledger), nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// Creación concurrente: otro request ganó el insert; reintentar como append.
	}
	// El append reemplaza el documento completo: corre con la fila bloqueada
	// para que dos lotes concurrentes no se pierdan entre sí.
	var out *dto.LotListResponse
	err = uc.tx.Run(ctx, func(ledgers repository.LedgerRepository) error {
		current, err := ledgers.GetForUpdate(ctx, userID, productID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		for _, lot := range lots {
			current.AppendLot(lot)
		}
		current.UpdatedAt = now
		if err := ledgers.Save(ctx, current); err != nil {
			return err
		}
		out = toLotList(current)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConsumeFromLot descuenta usedQty del lote y agrega el evento de consumo.
// El decremento y el append al historial son una única actualización atómica:
// se ejecutan dentro de una transacción con la fila del libro bloqueada
// (SELECT FOR UPDATE), así dos consumos concurrentes no pueden pasar ambos el
// chequeo de suficiencia.
func (uc *StockUseCase) ConsumeFromLot(ctx context.Context, userID, productID, lotID string, usedQty decimal.Decimal) (*dto.LotListResponse, error) {
	if !usedQty.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: used_qty debe ser mayor que 0", domain.ErrInvalidInput)
	}
	var out *dto.LotListResponse
	err := uc.tx.Run(ctx, func(ledgers repository.LedgerRepository) error {
		ledger, err := ledgers.GetForUpdate(ctx, userID, productID)
		if err != nil {
			return err
		}
		if ledger == nil {
			return fmt.Errorf("%w: el producto no tiene stock registrado", domain.ErrNotFound)
		}
		lot := ledger.FindLot(lotID)
		if lot == nil {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, lotID)
		}
		if err := lot.Consume(usedQty, time.Now()); err != nil {
			return err
		}
		ledger.UpdatedAt = time.Now()
		if err := ledgers.Save(ctx, ledger); err != nil {
			return err
		}
		out = toLotList(ledger)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListLots devuelve los lotes del producto. La ausencia de libro no es error:
// se responde con la secuencia vacía. Los lotes agotados (qty = 0) permanecen
// visibles para continuidad de auditoría.
func (uc *StockUseCase) ListLots(ctx context.Context, userID, productID string) (*dto.LotListResponse, error) {
	ledger, err := uc.ledgers.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		return &dto.LotListResponse{ProductID: productID, Items: []dto.LotResponse{}}, nil
	}
	return toLotList(ledger), nil
}

// ListAllStock devuelve el stock de todos los productos del usuario, unido con
// nombre/descripción/medida del catálogo para presentación. Sin libros, el
// resultado es vacío, no un error.
func (uc *StockUseCase) ListAllStock(ctx context.Context, userID string) (*dto.StockOverviewResponse, error) {
	ledgers, err := uc.ledgers.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalogs.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductStockResponse, 0, len(ledgers))
	for _, ledger := range ledgers {
		item := dto.ProductStockResponse{
			ProductID: ledger.ProductID,
			TotalQty:  ledger.TotalQty(),
			Lots:      toLotList(ledger).Items,
		}
		if catalog != nil {
			if p := catalog.FindProduct(ledger.ProductID); p != nil {
				item.Name = p.Name
				item.Description = p.Description
				item.Measure = string(p.Measure)
			}
		}
		items = append(items, item)
	}
	return &dto.StockOverviewResponse{Items: items}, nil
}

func toLotList(ledger *entity.StockLedger) *dto.LotListResponse {
	items := make([]dto.LotResponse, 0, len(ledger.Lots))
	for _, lot := range ledger.Lots {
		events := make([]dto.UsageEventResponse, 0, len(lot.UsageEvents))
		for _, ev := range lot.UsageEvents {
			events = append(events, dto.UsageEventResponse{UsedQty: ev.UsedQty, Timestamp: ev.Timestamp})
		}
		items = append(items, dto.LotResponse{
			ID:          lot.ID,
			ExpiryDate:  lot.ExpiryDate.Format(dateLayout),
			InitialQty:  lot.InitialQty,
			Qty:         lot.Qty,
			UsageEvents: events,
		})
	}
	return &dto.LotListResponse{ProductID: ledger.ProductID, Items: items}
}
