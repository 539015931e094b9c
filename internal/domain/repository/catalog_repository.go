package repository

import (
	"context"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// CatalogRepository puerto de persistencia del catálogo de productos.
// El agregado completo se guarda como un documento por usuario.
type CatalogRepository interface {
	// GetByUser devuelve el catálogo del usuario, o (nil, nil) si no existe.
	GetByUser(ctx context.Context, userID string) (*entity.ProductCatalog, error)
	// GetByUserForUpdate igual que GetByUser pero bloquea la fila
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetByUserForUpdate(ctx context.Context, userID string) (*entity.ProductCatalog, error)
	// Create inserta el catálogo. Retorna domain.ErrDuplicate si otro request
	// lo creó de forma concurrente (violación de PK user_id).
	Create(ctx context.Context, catalog *entity.ProductCatalog) error
	// Save reemplaza el documento del catálogo existente.
	Save(ctx context.Context, catalog *entity.ProductCatalog) error
}
