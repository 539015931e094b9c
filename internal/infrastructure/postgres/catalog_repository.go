package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo persistencia del catálogo sobre PostgreSQL. El agregado completo
// (la secuencia de productos) vive como documento JSONB en una fila por
// usuario; la PK user_id aporta la garantía de unicidad que exige la creación
// perezosa. Usable con pool o tx (Querier).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// GetByUser obtiene el catálogo del usuario, o (nil, nil) si no existe.
func (r *CatalogRepo) GetByUser(ctx context.Context, userID string) (*entity.ProductCatalog, error) {
	query := `
		SELECT user_id, products, created_at, updated_at
		FROM product_catalogs WHERE user_id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, userID))
}

// GetByUserForUpdate igual que GetByUser pero bloquea la fila (SELECT FOR
// UPDATE) para serializar los appends concurrentes sobre el mismo catálogo.
func (r *CatalogRepo) GetByUserForUpdate(ctx context.Context, userID string) (*entity.ProductCatalog, error) {
	query := `
		SELECT user_id, products, created_at, updated_at
		FROM product_catalogs WHERE user_id = $1
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, userID))
}

// Create inserta el catálogo. Violación de unicidad => domain.ErrDuplicate
// (otro request lo creó de forma concurrente).
func (r *CatalogRepo) Create(ctx context.Context, catalog *entity.ProductCatalog) error {
	doc, err := json.Marshal(catalog.Products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	query := `
		INSERT INTO product_catalogs (user_id, products, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	_, err = r.q.Exec(ctx, query, catalog.UserID, doc, catalog.CreatedAt, catalog.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert catalog: %w", err)
	}
	return nil
}

// Save reemplaza el documento del catálogo existente.
func (r *CatalogRepo) Save(ctx context.Context, catalog *entity.ProductCatalog) error {
	doc, err := json.Marshal(catalog.Products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	query := `
		UPDATE product_catalogs SET products = $2, updated_at = $3
		WHERE user_id = $1`
	cmd, err := r.q.Exec(ctx, query, catalog.UserID, doc, catalog.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update catalog: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) scanOne(row pgx.Row) (*entity.ProductCatalog, error) {
	var c entity.ProductCatalog
	var doc []byte
	err := row.Scan(&c.UserID, &doc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	if err := json.Unmarshal(doc, &c.Products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	return &c, nil
}
