package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta fn dentro de una transacción con un repositorio de
// catálogos atado a la tx, para los appends que necesitan bloqueo de fila.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(catalogs repository.CatalogRepository) error) error
}

// CatalogUseCase casos de uso del catálogo de productos del usuario.
// El catálogo es un documento único por usuario: se crea perezosamente en el
// primer alta y después solo se le agregan entradas.
type CatalogUseCase struct {
	repo repository.CatalogRepository
	tx   CatalogTxRunner
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository, tx CatalogTxRunner) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, tx: tx}
}

// AddProducts valida el lote completo y lo agrega al catálogo del usuario.
// Todo-o-nada: una entrada inválida rechaza el lote entero sin escribir nada;
// el error identifica el índice ofensivo. Si dos requests concurrentes ven el
// catálogo ausente, el perdedor de la creación reintenta como append.
func (uc *CatalogUseCase) AddProducts(ctx context.Context, userID string, in dto.AddProductsRequest) (*dto.ProductListResponse, error) {
	if len(in.Products) == 0 {
		return nil, fmt.Errorf("%w: el lote de productos está vacío", domain.ErrInvalidInput)
	}
	entries := make([]entity.ProductEntry, 0, len(in.Products))
	for i, p := range in.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: producto %d: name es obligatorio", domain.ErrInvalidInput, i+1)
		}
		if strings.TrimSpace(p.Description) == "" {
			return nil, fmt.Errorf("%w: producto %d: description es obligatorio", domain.ErrInvalidInput, i+1)
		}
		measure := entity.Measure(p.Measure)
		if !measure.IsValid() {
			return nil, fmt.Errorf("%w: producto %d: measure %q no es una unidad válida", domain.ErrInvalidInput, i+1, p.Measure)
		}
		entries = append(entries, entity.ProductEntry{
			ID:          uuid.New().String(),
			Name:        p.Name,
			Description: p.Description,
			Measure:     measure,
		})
	}

	catalog, err := uc.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if catalog == nil {
		catalog = &entity.ProductCatalog{
			UserID:    userID,
			Products:  entries,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = uc.repo.Create(ctx, catalog)
		if err == nil {
			return toProductList(entries), nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// Otro request creó el catálogo entre el Get y el Create:
		// reintentar como append sobre el documento ganador.
	}
	// El append es read-modify-write del documento completo: se ejecuta con la
	// fila bloqueada para que dos lotes concurrentes no se pisen.
	err = uc.tx.RunCatalog(ctx, func(catalogs repository.CatalogRepository) error {
		current, err := catalogs.GetByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		current.Products = append(current.Products, entries...)
		current.UpdatedAt = now
		return catalogs.Save(ctx, current)
	})
	if err != nil {
		return nil, err
	}
	return toProductList(entries), nil
}

// ListProducts devuelve el catálogo del usuario; vacío si aún no tiene.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, userID string) (*dto.ProductListResponse, error) {
	catalog, err := uc.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return &dto.ProductListResponse{Items: []dto.ProductResponse{}}, nil
	}
	return toProductList(catalog.Products), nil
}

func toProductList(entries []entity.ProductEntry) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ProductResponse{
			ID:          e.ID,
			Name:        e.Name,
			Description: e.Description,
			Measure:     string(e.Measure),
		})
	}
	return &dto.ProductListResponse{Items: items}
}
