package catalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerzia/backoffice-api/internal/application/catalog"
	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/infrastructure/memory"
)

const testBusinessID = "00000000-0000-0000-0000-0000000000b1"

func newListFixture(t *testing.T) (*memory.Store, *catalog.ListUseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := catalog.NewListUseCase(
		memory.NewCatalogRepository(store),
		stock.NewAggregator(memory.NewLedgerRepository(store)),
	)
	return store, uc
}

func seedProduct(t *testing.T, store *memory.Store, id, code, name string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, memory.NewProductRepository(store).Create(context.Background(), &entity.Product{
		ID:         id,
		BusinessID: testBusinessID,
		Code:       code,
		Name:       name,
		Price:      decimal.NewFromInt(1000),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}))
}

func seedStock(t *testing.T, store *memory.Store, productID, variantID string, delta int64) {
	t.Helper()
	e := &entity.MovementEntry{
		ID:         uuid.New().String(),
		BusinessID: testBusinessID,
		ProductID:  productID,
		Delta:      delta,
		Kind:       entity.MovementKindAdjustment,
		OccurredAt: time.Now(),
		CreatedAt:  time.Now(),
	}
	if variantID != "" {
		e.VariantID = &variantID
	}
	require.NoError(t, memory.NewLedgerRepository(store).Append(context.Background(), []*entity.MovementEntry{e}))
}

func listReq(page, size int) dto.ListCatalogRequest {
	var in dto.ListCatalogRequest
	in.Page = page
	in.PageSize = size
	return in
}

func rowsOf(t *testing.T, resp *dto.PageResponse) []dto.CatalogRowDTO {
	t.Helper()
	rows, ok := resp.Data.([]dto.CatalogRowDTO)
	require.True(t, ok, "Data debe ser []dto.CatalogRowDTO")
	return rows
}

// 23 productos con páginas de 10: 3 páginas, la última con 3 filas, y los
// totales son idénticos en todas.
func TestList_PaginacionDeterminista(t *testing.T) {
	store, uc := newListFixture(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 23; i++ {
		seedProduct(t, store, fmt.Sprintf("prod-%02d", i), fmt.Sprintf("P-%02d", i),
			fmt.Sprintf("Producto %02d", i), base.Add(time.Duration(i)*time.Hour))
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		resp, err := uc.List(ctx, testBusinessID, listReq(page, 10))
		require.NoError(t, err)
		assert.Equal(t, 23, resp.Total)
		assert.Equal(t, 3, resp.TotalPages)
		rows := rowsOf(t, resp)
		if page < 3 {
			assert.Len(t, rows, 10)
		} else {
			assert.Len(t, rows, 3, "la última página lleva el resto")
		}
		for _, r := range rows {
			assert.False(t, seen[r.ProductID], "ningún producto debe repetirse entre páginas")
			seen[r.ProductID] = true
		}
	}
	assert.Len(t, seen, 23)

	// página más allá de la última: vacía con el total correcto
	resp, err := uc.List(ctx, testBusinessID, listReq(4, 10))
	require.NoError(t, err)
	assert.Empty(t, rowsOf(t, resp))
	assert.Equal(t, 23, resp.Total)
}

// Orden por stock: el conjunto candidato se materializa completo, se ordena
// por el stock derivado y recién entonces se pagina.
func TestList_OrdenPorStock(t *testing.T) {
	store, uc := newListFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedProduct(t, store, "prod-a", "A", "Alfa", now)
	seedProduct(t, store, "prod-b", "B", "Beta", now)
	seedProduct(t, store, "prod-c", "C", "Gamma", now)
	seedStock(t, store, "prod-a", "", 5)
	seedStock(t, store, "prod-b", "", 50)
	seedStock(t, store, "prod-c", "", 20)

	in := listReq(1, 10)
	in.SortBy = "stock"
	in.SortDir = "desc"
	resp, err := uc.List(ctx, testBusinessID, in)
	require.NoError(t, err)
	rows := rowsOf(t, resp)
	require.Len(t, rows, 3)
	assert.Equal(t, []int64{50, 20, 5}, []int64{rows[0].Stock, rows[1].Stock, rows[2].Stock})
	assert.Equal(t, "prod-b", rows[0].ProductID)

	// empates de stock desempatan por id ascendente: paginación estable
	seedStock(t, store, "prod-a", "", 15) // a = 20, empata con c
	in.SortDir = "asc"
	resp, err = uc.List(ctx, testBusinessID, in)
	require.NoError(t, err)
	rows = rowsOf(t, resp)
	require.Len(t, rows, 3)
	assert.Equal(t, "prod-a", rows[0].ProductID, "empate 20/20 resuelto por id")
	assert.Equal(t, "prod-c", rows[1].ProductID)
	assert.Equal(t, "prod-b", rows[2].ProductID)
}

// A nivel producto el stock agrega base + variantes; a nivel variante cada
// fila lleva el suyo.
func TestList_NivelesProductoYVariante(t *testing.T) {
	store, uc := newListFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedProduct(t, store, "prod-a", "A", "Alfa", now)
	variantRepo := memory.NewVariantRepository(store)
	require.NoError(t, variantRepo.Create(ctx, &entity.Variant{ID: "var-1", ProductID: "prod-a", Name: "Talla S"}))
	require.NoError(t, variantRepo.Create(ctx, &entity.Variant{ID: "var-2", ProductID: "prod-a", Name: "Talla M"}))
	seedStock(t, store, "prod-a", "var-1", 10)
	seedStock(t, store, "prod-a", "var-2", 7)

	in := listReq(1, 10)
	resp, err := uc.List(ctx, testBusinessID, in)
	require.NoError(t, err)
	rows := rowsOf(t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(17), rows[0].Stock, "agregado de las variantes")

	in.Level = dto.ListLevelVariant
	resp, err = uc.List(ctx, testBusinessID, in)
	require.NoError(t, err)
	rows = rowsOf(t, resp)
	require.Len(t, rows, 2)
	byVariant := map[string]int64{}
	for _, r := range rows {
		byVariant[r.VariantID] = r.Stock
	}
	assert.Equal(t, int64(10), byVariant["var-1"])
	assert.Equal(t, int64(7), byVariant["var-2"])
}

// as_of inválido, nivel desconocido o campo de orden fuera de la whitelist
// se rechazan con ErrValidation.
func TestList_ParametrosInvalidos(t *testing.T) {
	_, uc := newListFixture(t)
	ctx := context.Background()

	in := listReq(1, 10)
	in.AsOf = "ayer al mediodía"
	_, err := uc.List(ctx, testBusinessID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = listReq(1, 10)
	in.Level = "bodega"
	_, err = uc.List(ctx, testBusinessID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = listReq(1, 10)
	in.SortBy = "price; DROP TABLE products"
	_, err = uc.List(ctx, testBusinessID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// El filtro por nombre es parcial y sin distinguir mayúsculas.
func TestList_FiltroPorNombre(t *testing.T) {
	store, uc := newListFixture(t)
	ctx := context.Background()
	now := time.Now()

	seedProduct(t, store, "prod-a", "A", "Camiseta básica", now)
	seedProduct(t, store, "prod-b", "B", "Taza cerámica", now)

	in := listReq(1, 10)
	in.Name = "CAMISETA"
	resp, err := uc.List(ctx, testBusinessID, in)
	require.NoError(t, err)
	rows := rowsOf(t, resp)
	require.Len(t, rows, 1)
	assert.Equal(t, "prod-a", rows[0].ProductID)
	assert.Equal(t, 1, resp.Total)
}
