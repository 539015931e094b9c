package usecase_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Copian los agregados al leer y al guardar (como lo haría
// el store real con documentos serializados) y respetan la semántica de
// unicidad y de bloqueo de fila que los casos de uso asumen.
// ──────────────────────────────────────────────────────────────────────────────

func cloneCatalog(c *entity.ProductCatalog) *entity.ProductCatalog {
	if c == nil {
		return nil
	}
	raw, _ := json.Marshal(c.Products)
	out := *c
	out.Products = nil
	_ = json.Unmarshal(raw, &out.Products)
	return &out
}

func cloneLedger(l *entity.StockLedger) *entity.StockLedger {
	if l == nil {
		return nil
	}
	raw, _ := json.Marshal(l.Lots)
	out := *l
	out.Lots = nil
	_ = json.Unmarshal(raw, &out.Lots)
	return &out
}

// fakeCatalogRepo respeta la unicidad por user_id. onCreate permite simular a
// un request concurrente que gana la creación.
type fakeCatalogRepo struct {
	mu       sync.Mutex
	catalogs map[string]*entity.ProductCatalog
	onCreate func(*entity.ProductCatalog) error
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{catalogs: make(map[string]*entity.ProductCatalog)}
}

func (f *fakeCatalogRepo) GetByUser(ctx context.Context, userID string) (*entity.ProductCatalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneCatalog(f.catalogs[userID]), nil
}

func (f *fakeCatalogRepo) GetByUserForUpdate(ctx context.Context, userID string) (*entity.ProductCatalog, error) {
	// El bloqueo de fila lo simula fakeTxRunner serializando las tx.
	return f.GetByUser(ctx, userID)
}

func (f *fakeCatalogRepo) Create(ctx context.Context, catalog *entity.ProductCatalog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onCreate != nil {
		if err := f.onCreate(catalog); err != nil {
			return err
		}
	}
	if _, ok := f.catalogs[catalog.UserID]; ok {
		return domain.ErrDuplicate
	}
	f.catalogs[catalog.UserID] = cloneCatalog(catalog)
	return nil
}

func (f *fakeCatalogRepo) Save(ctx context.Context, catalog *entity.ProductCatalog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.catalogs[catalog.UserID]; !ok {
		return domain.ErrNotFound
	}
	f.catalogs[catalog.UserID] = cloneCatalog(catalog)
	return nil
}

// fakeLedgerRepo respeta la unicidad por (user_id, product_id). onCreate
// permite simular a un request concurrente que gana la creación.
type fakeLedgerRepo struct {
	mu       sync.Mutex
	ledgers  map[string]*entity.StockLedger
	onCreate func(*entity.StockLedger) error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{ledgers: make(map[string]*entity.StockLedger)}
}

func ledgerKey(userID, productID string) string { return userID + "/" + productID }

func (f *fakeLedgerRepo) Get(ctx context.Context, userID, productID string) (*entity.StockLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneLedger(f.ledgers[ledgerKey(userID, productID)]), nil
}

func (f *fakeLedgerRepo) GetForUpdate(ctx context.Context, userID, productID string) (*entity.StockLedger, error) {
	// El bloqueo de fila lo simula fakeTxRunner serializando las tx.
	return f.Get(ctx, userID, productID)
}

func (f *fakeLedgerRepo) Create(ctx context.Context, ledger *entity.StockLedger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onCreate != nil {
		if err := f.onCreate(ledger); err != nil {
			return err
		}
	}
	key := ledgerKey(ledger.UserID, ledger.ProductID)
	if _, ok := f.ledgers[key]; ok {
		return domain.ErrDuplicate
	}
	f.ledgers[key] = cloneLedger(ledger)
	return nil
}

func (f *fakeLedgerRepo) Save(ctx context.Context, ledger *entity.StockLedger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ledgerKey(ledger.UserID, ledger.ProductID)
	if _, ok := f.ledgers[key]; !ok {
		return domain.ErrNotFound
	}
	f.ledgers[key] = cloneLedger(ledger)
	return nil
}

func (f *fakeLedgerRepo) ListByUser(ctx context.Context, userID string) ([]*entity.StockLedger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*entity.StockLedger
	for _, l := range f.ledgers {
		if l.UserID == userID {
			list = append(list, cloneLedger(l))
		}
	}
	return list, nil
}

// fakeTxRunner serializa las transacciones con un mutex, igual que lo haría el
// SELECT FOR UPDATE sobre la misma fila: fn corre de principio a fin sin que
// otra tx vea estados intermedios.
type fakeTxRunner struct {
	mu       sync.Mutex
	ledgers  *fakeLedgerRepo
	catalogs *fakeCatalogRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(ledgers repository.LedgerRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.ledgers)
}

func (f *fakeTxRunner) RunCatalog(ctx context.Context, fn func(catalogs repository.CatalogRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.catalogs)
}
