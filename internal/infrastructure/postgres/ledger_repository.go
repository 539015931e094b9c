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

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo persistencia de los libros de stock sobre PostgreSQL. Cada par
// (user_id, product_id) es una fila con los lotes como documento JSONB; la PK
// compuesta aporta la unicidad y total_qty es una columna resumen NUMERIC
// mantenida en cada guardado. Usable con pool o tx (Querier).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `user_id, product_id, lots, created_at, updated_at`

// Get obtiene el libro del par (usuario, producto), o (nil, nil) si no existe.
func (r *LedgerRepo) Get(ctx context.Context, userID, productID string) (*entity.StockLedger, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledgers WHERE user_id = $1 AND product_id = $2`
	return scanLedger(r.q.QueryRow(ctx, query, userID, productID))
}

// GetForUpdate igual que Get pero bloquea la fila (SELECT FOR UPDATE) para
// serializar los consumos concurrentes sobre el mismo libro.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, userID, productID string) (*entity.StockLedger, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledgers WHERE user_id = $1 AND product_id = $2
		FOR UPDATE`
	return scanLedger(r.q.QueryRow(ctx, query, userID, productID))
}

// Create inserta el libro. Violación de unicidad => domain.ErrDuplicate
// (otro request lo creó de forma concurrente).
func (r *LedgerRepo) Create(ctx context.Context, ledger *entity.StockLedger) error {
	doc, err := json.Marshal(ledger.Lots)
	if err != nil {
		return fmt.Errorf("marshal lots: %w", err)
	}
	query := `
		INSERT INTO stock_ledgers (user_id, product_id, lots, total_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.q.Exec(ctx, query,
		ledger.UserID, ledger.ProductID, doc, ledger.TotalQty(), ledger.CreatedAt, ledger.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ledger: %w", err)
	}
	return nil
}

// Save reemplaza el documento del libro y actualiza la columna resumen.
// El decremento de un lote y el append a su historial llegan aquí como un
// único UPDATE de la fila, dentro de la tx que la tiene bloqueada.
func (r *LedgerRepo) Save(ctx context.Context, ledger *entity.StockLedger) error {
	doc, err := json.Marshal(ledger.Lots)
	if err != nil {
		return fmt.Errorf("marshal lots: %w", err)
	}
	query := `
		UPDATE stock_ledgers SET lots = $3, total_qty = $4, updated_at = $5
		WHERE user_id = $1 AND product_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		ledger.UserID, ledger.ProductID, doc, ledger.TotalQty(), ledger.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ledger: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser devuelve todos los libros del usuario ordenados por creación.
func (r *LedgerRepo) ListByUser(ctx context.Context, userID string) ([]*entity.StockLedger, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledgers WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLedger
	for rows.Next() {
		ledger, err := scanLedger(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, ledger)
	}
	return list, rows.Err()
}

func scanLedger(row pgx.Row) (*entity.StockLedger, error) {
	var s entity.StockLedger
	var doc []byte
	err := row.Scan(&s.UserID, &s.ProductID, &doc, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	if err := json.Unmarshal(doc, &s.Lots); err != nil {
		return nil, fmt.Errorf("unmarshal lots: %w", err)
	}
	return &s, nil
}
