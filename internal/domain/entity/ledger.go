package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/domain"
)

// UsageEvent registro de consumo de un lote. El historial es append-only:
// una vez escrito no se modifica ni se elimina.
type UsageEvent struct {
	UsedQty   decimal.Decimal `json:"used_qty"`
	Timestamp time.Time       `json:"timestamp"`
}

// StockLot un lote de stock: una compra/entrada concreta con su fecha de
// vencimiento, la cantidad restante y su historial de consumos.
// Invariante: Qty + Σ UsageEvents.UsedQty == InitialQty, y Qty >= 0.
// Un lote agotado (Qty == 0) permanece en el libro para conservar el historial.
type StockLot struct {
	ID          string          `json:"id"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	InitialQty  decimal.Decimal `json:"initial_qty"`
	Qty         decimal.Decimal `json:"qty"`
	UsageEvents []UsageEvent    `json:"usage_events"`
}

// Consume descuenta usedQty del lote y agrega el evento de consumo.
// Si usedQty excede la cantidad restante retorna ErrInsufficientStock sin mutar nada.
func (l *StockLot) Consume(usedQty decimal.Decimal, now time.Time) error {
	if !usedQty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if usedQty.GreaterThan(l.Qty) {
		return domain.ErrInsufficientStock
	}
	l.Qty = l.Qty.Sub(usedQty)
	l.UsageEvents = append(l.UsageEvents, UsageEvent{UsedQty: usedQty, Timestamp: now})
	return nil
}

// StockLedger agregado: todos los lotes de un producto para un usuario.
// Existe a lo sumo un libro por par (user_id, product_id); los lotes del mismo
// producto viven dentro de la secuencia Lots.
type StockLedger struct {
	UserID    string
	ProductID string
	Lots      []StockLot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindLot busca un lote por ID.
func (s *StockLedger) FindLot(lotID string) *StockLot {
	for i := range s.Lots {
		if s.Lots[i].ID == lotID {
			return &s.Lots[i]
		}
	}
	return nil
}

// AppendLot agrega un lote nuevo al final de la secuencia.
func (s *StockLedger) AppendLot(lot StockLot) {
	s.Lots = append(s.Lots, lot)
}

// TotalQty suma la cantidad restante de todos los lotes (columna resumen).
func (s *StockLedger) TotalQty() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lots {
		total = total.Add(s.Lots[i].Qty)
	}
	return total
}
