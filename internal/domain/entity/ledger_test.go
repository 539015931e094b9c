package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

func newLot(qty int64) entity.StockLot {
	return entity.StockLot{
		ID:          "lote-1",
		ExpiryDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		InitialQty:  decimal.NewFromInt(qty),
		Qty:         decimal.NewFromInt(qty),
		UsageEvents: []entity.UsageEvent{},
	}
}

func TestStockLot_Consume_MantieneElInvariante(t *testing.T) {
	lot := newLot(10)
	now := time.Now()

	require.NoError(t, lot.Consume(decimal.NewFromInt(3), now))
	require.NoError(t, lot.Consume(decimal.NewFromFloat(2.5), now))

	assert.True(t, lot.Qty.Equal(decimal.NewFromFloat(4.5)))
	require.Len(t, lot.UsageEvents, 2)

	sum := lot.Qty
	for _, ev := range lot.UsageEvents {
		sum = sum.Add(ev.UsedQty)
	}
	assert.True(t, sum.Equal(lot.InitialQty), "qty + Σ used_qty debe igualar initial_qty")
}

func TestStockLot_Consume_InsuficienteNoMutaNada(t *testing.T) {
	lot := newLot(2)

	err := lot.Consume(decimal.NewFromInt(3), time.Now())

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, lot.Qty.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, lot.UsageEvents)
}

func TestStockLot_Consume_ExactoDejaQtyEnCero(t *testing.T) {
	lot := newLot(2)

	require.NoError(t, lot.Consume(decimal.NewFromInt(2), time.Now()))

	assert.True(t, lot.Qty.IsZero())
	assert.Len(t, lot.UsageEvents, 1)
}

func TestStockLot_Consume_CantidadNoPositiva(t *testing.T) {
	lot := newLot(2)

	assert.ErrorIs(t, lot.Consume(decimal.Zero, time.Now()), domain.ErrInvalidInput)
	assert.ErrorIs(t, lot.Consume(decimal.NewFromInt(-1), time.Now()), domain.ErrInvalidInput)
	assert.Empty(t, lot.UsageEvents)
}

func TestStockLedger_TotalQtySumaTodosLosLotes(t *testing.T) {
	ledger := entity.StockLedger{UserID: "u", ProductID: "p"}
	ledger.AppendLot(newLot(2))
	lot2 := newLot(3)
	lot2.ID = "lote-2"
	ledger.AppendLot(lot2)

	assert.True(t, ledger.TotalQty().Equal(decimal.NewFromInt(5)))
	assert.NotNil(t, ledger.FindLot("lote-2"))
	assert.Nil(t, ledger.FindLot("no-existe"))
}
