package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// LedgerRepository puerto de persistencia de los libros de stock.
// Cada par (user_id, product_id) tiene a lo sumo un documento.
type LedgerRepository interface {
	// Get devuelve el libro del par (usuario, producto), o (nil, nil) si no existe.
	Get(ctx context.Context, userID, productID string) (*entity.StockLedger, error)
	// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, userID, productID string) (*entity.StockLedger, error)
	// Create inserta el libro. Retorna domain.ErrDuplicate si otro request
	// lo creó de forma concurrente (violación de PK (user_id, product_id)).
	Create(ctx context.Context, ledger *entity.StockLedger) error
	// Save reemplaza el documento del libro existente.
	Save(ctx context.Context, ledger *entity.StockLedger) error
	// ListByUser devuelve todos los libros del usuario (vacío si no hay).
	ListByUser(ctx context.Context, userID string) ([]*entity.StockLedger, error)
}
