package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddLotRequest entrada para agregar un lote de stock a un producto.
// ExpiryDate en formato YYYY-MM-DD.
type AddLotRequest struct {
	ExpiryDate string          `json:"expiry_date" validate:"required"`
	Qty        decimal.Decimal `json:"qty"`
}

// ConsumeRequest entrada para consumir cantidad de un lote.
type ConsumeRequest struct {
	UsedQty decimal.Decimal `json:"used_qty"`
}

// UsageEventResponse un evento del historial de consumo.
type UsageEventResponse struct {
	UsedQty   decimal.Decimal `json:"used_qty"`
	Timestamp time.Time       `json:"timestamp"`
}

// LotResponse salida de un lote de stock.
type LotResponse struct {
	ID          string               `json:"id"`
	ExpiryDate  string               `json:"expiry_date"` // YYYY-MM-DD
	InitialQty  decimal.Decimal      `json:"initial_qty"`
	Qty         decimal.Decimal      `json:"qty"`
	UsageEvents []UsageEventResponse `json:"usage_events"`
}

// LotListResponse lotes de un producto.
type LotListResponse struct {
	ProductID string        `json:"product_id"`
	Items     []LotResponse `json:"items"`
}

// ProductStockResponse stock de un producto unido con los datos del catálogo,
// para el listado global del usuario.
type ProductStockResponse struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Measure     string          `json:"measure"`
	TotalQty    decimal.Decimal `json:"total_qty"`
	Lots        []LotResponse   `json:"lots"`
}

// StockOverviewResponse listado global de stock del usuario.
type StockOverviewResponse struct {
	Items []ProductStockResponse `json:"items"`
}
