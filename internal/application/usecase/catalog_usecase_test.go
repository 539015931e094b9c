package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

func productsReq(inputs ...dto.ProductInput) dto.AddProductsRequest {
	return dto.AddProductsRequest{Products: inputs}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de productos
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProducts_CreaCatalogoPerezosamente(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	out, err := uc.AddProducts(context.Background(), testUserID, productsReq(
		dto.ProductInput{Name: "Arroz", Description: "Bolsa de 5kg", Measure: "kg"},
		dto.ProductInput{Name: "Leche", Description: "Entera", Measure: "l"},
	))
	require.NoError(t, err)

	require.Len(t, out.Items, 2)
	assert.NotEmpty(t, out.Items[0].ID)
	assert.NotEqual(t, out.Items[0].ID, out.Items[1].ID)
	assert.Equal(t, "Arroz", out.Items[0].Name)
	assert.Equal(t, "l", out.Items[1].Measure)
}

func TestAddProducts_AppendSobreCatalogoExistente(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	_, err := uc.AddProducts(context.Background(), testUserID, productsReq(
		dto.ProductInput{Name: "Arroz", Description: "Bolsa de 5kg", Measure: "kg"},
	))
	require.NoError(t, err)

	_, err = uc.AddProducts(context.Background(), testUserID, productsReq(
		dto.ProductInput{Name: "Leche", Description: "Entera", Measure: "l"},
	))
	require.NoError(t, err)

	list, err := uc.ListProducts(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestAddProducts_EntradaInvalidaRechazaElLoteCompleto(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	cases := []struct {
		name string
		in   dto.AddProductsRequest
		want string
	}{
		{
			name: "nombre vacío",
			in: productsReq(
				dto.ProductInput{Name: "Arroz", Description: "Bolsa", Measure: "kg"},
				dto.ProductInput{Name: "   ", Description: "Entera", Measure: "l"},
			),
			want: "producto 2",
		},
		{
			name: "medida fuera del enum",
			in: productsReq(
				dto.ProductInput{Name: "Leche", Description: "Entera", Measure: "liter"},
			),
			want: "liter",
		},
		{
			name: "lote vacío",
			in:   productsReq(),
			want: "vacío",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AddProducts(context.Background(), testUserID, tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	list, err := uc.ListProducts(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ningún lote inválido debe escribir nada")
}

func TestAddProducts_CreacionConcurrente_ReintentaComoAppend(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	// Simula a otro request ganando el insert entre el Get y el Create.
	repo.onCreate = func(c *entity.ProductCatalog) error {
		repo.onCreate = nil
		other := &entity.ProductCatalog{
			UserID: c.UserID,
			Products: []entity.ProductEntry{
				{ID: "ganador", Name: "Pan", Description: "Integral", Measure: entity.MeasurePiece},
			},
		}
		repo.catalogs[c.UserID] = other
		return domain.ErrDuplicate
	}

	out, err := uc.AddProducts(context.Background(), testUserID, productsReq(
		dto.ProductInput{Name: "Arroz", Description: "Bolsa de 5kg", Measure: "kg"},
	))
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	list, err := uc.ListProducts(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, list.Items, 2, "el perdedor debe anexar sobre el documento ganador")
	assert.Equal(t, "Pan", list.Items[0].Name)
	assert.Equal(t, "Arroz", list.Items[1].Name)
}

func TestAddProducts_DuplicadoEnvuelto_TambienReintentaComoAppend(t *testing.T) {
	// El adaptador puede devolver el centinela envuelto; la detección debe ser
	// por errors.Is, no por identidad.
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	repo.onCreate = func(c *entity.ProductCatalog) error {
		repo.onCreate = nil
		repo.catalogs[c.UserID] = &entity.ProductCatalog{
			UserID: c.UserID,
			Products: []entity.ProductEntry{
				{ID: "ganador", Name: "Pan", Description: "Integral", Measure: entity.MeasurePiece},
			},
		}
		return fmt.Errorf("insert catalog: %w", domain.ErrDuplicate)
	}

	_, err := uc.AddProducts(context.Background(), testUserID, productsReq(
		dto.ProductInput{Name: "Arroz", Description: "Bolsa de 5kg", Measure: "kg"},
	))
	require.NoError(t, err)

	list, err := uc.ListProducts(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestAddProducts_AppendsConcurrentesNoSePierden(t *testing.T) {
	// Dos lotes concurrentes sobre un catálogo ya existente: el append corre
	// con la fila bloqueada, así que ninguno pisa la escritura del otro.
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	_, err := uc.AddProducts(context.Background(), testUserID, productsReq(
		dto.ProductInput{Name: "Pan", Description: "Integral", Measure: "piece"},
	))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AddProducts(context.Background(), testUserID, productsReq(
				dto.ProductInput{
					Name:        fmt.Sprintf("Producto %d", i+1),
					Description: "Agregado en paralelo",
					Measure:     "pcs",
				},
			))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := uc.ListProducts(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 3, "ningún lote debe perderse en appends concurrentes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado
// ──────────────────────────────────────────────────────────────────────────────

func TestListProducts_SinCatalogoDevuelveVacio(t *testing.T) {
	repo := newFakeCatalogRepo()
	uc := usecase.NewCatalogUseCase(repo, &fakeTxRunner{catalogs: repo})

	out, err := uc.ListProducts(context.Background(), testUserID)
	require.NoError(t, err)

	assert.NotNil(t, out.Items)
	assert.Empty(t, out.Items)
}
