package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/ledger"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/infrastructure/memory"
)

const (
	testBusinessID = "00000000-0000-0000-0000-0000000000b1"
	testUserID     = "00000000-0000-0000-0000-0000000000u1"
)

type fixture struct {
	store *memory.Store
	uc    *ledger.UseCase
	agg   *stock.Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ledgerRepo := memory.NewLedgerRepository(store)
	productRepo := memory.NewProductRepository(store)
	variantRepo := memory.NewVariantRepository(store)

	require.NoError(t, productRepo.Create(context.Background(), &entity.Product{
		ID:         "prod-1",
		BusinessID: testBusinessID,
		Code:       "P-001",
		Name:       "Producto uno",
		Price:      decimal.NewFromInt(1000),
	}))
	require.NoError(t, variantRepo.Create(context.Background(), &entity.Variant{
		ID:        "var-a",
		ProductID: "prod-1",
		Name:      "Talla M",
	}))

	return &fixture{
		store: store,
		uc:    ledger.NewUseCase(memory.NewTxRunner(store), ledgerRepo, productRepo, variantRepo),
		agg:   stock.NewAggregator(ledgerRepo),
	}
}

func (f *fixture) stockOf(t *testing.T, productID string) int64 {
	t.Helper()
	snap, err := f.agg.CurrentStock(context.Background(), testBusinessID, productID, "")
	require.NoError(t, err)
	return snap.Quantity
}

// Ajustes con signo: +50 y −12 dejan el stock en 38.
func TestRegisterAdjustment_PliegaDeltas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: 50,
	})
	require.NoError(t, err)
	_, err = f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: -12,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(38), f.stockOf(t, "prod-1"))
}

// Un ajuste con delta cero o producto inexistente no toca el libro.
func TestRegisterAdjustment_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: 0,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-no-existe", Delta: 5,
	})
	assert.ErrorIs(t, err, domain.ErrReferential)

	// variante de otro producto
	_, err = f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", VariantID: "var-inexistente", Delta: 5,
	})
	assert.ErrorIs(t, err, domain.ErrReferential)

	assert.Equal(t, int64(0), f.stockOf(t, "prod-1"), "ninguna validación fallida debe dejar rastro")
}

// La reversal lleva el delta negado: el fold vuelve al valor previo sin
// lógica especial.
func TestReverseEntry_RestauraStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: 50,
	})
	require.NoError(t, err)
	out, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: -12,
	})
	require.NoError(t, err)
	require.Equal(t, int64(38), f.stockOf(t, "prod-1"))

	reversal, err := f.uc.ReverseEntry(ctx, testBusinessID, testUserID, out.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), reversal.Delta, "delta negado del original")
	assert.Equal(t, entity.MovementKindReversal, reversal.Kind)
	require.NotNil(t, reversal.RefID)
	assert.Equal(t, out.ID, *reversal.RefID)

	assert.Equal(t, int64(50), f.stockOf(t, "prod-1"), "la reversal cancela el -12")
}

// Una entrada se reversa a lo sumo una vez: el segundo intento falla con
// ErrConflict y no altera el fold.
func TestReverseEntry_IdempotenciaPorConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: 30,
	})
	require.NoError(t, err)

	_, err = f.uc.ReverseEntry(ctx, testBusinessID, testUserID, out.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.stockOf(t, "prod-1"))

	_, err = f.uc.ReverseEntry(ctx, testBusinessID, testUserID, out.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "la segunda reversal debe rechazarse")
	assert.Equal(t, int64(0), f.stockOf(t, "prod-1"), "el neto no debe moverse")
}

// Una reversal no es reversable ni una entrada inexistente localizable.
func TestReverseEntry_CasosInvalidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.ReverseEntry(ctx, testBusinessID, testUserID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: 10,
	})
	require.NoError(t, err)
	reversal, err := f.uc.ReverseEntry(ctx, testBusinessID, testUserID, out.ID)
	require.NoError(t, err)

	_, err = f.uc.ReverseEntry(ctx, testBusinessID, testUserID, reversal.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "una reversal no se reversa")
}

// El historial pagina determinista y reporta el total de filas del filtro.
func TestHistory_Paginacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
			ProductID:  "prod-1",
			Delta:      1,
			OccurredAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	req := dto.ListMovementsRequest{ProductID: "prod-1"}
	req.Page = 3
	req.PageSize = 10
	entries, total, err := f.uc.History(ctx, testBusinessID, req)
	require.NoError(t, err)
	assert.Equal(t, 23, total)
	assert.Len(t, entries, 3, "la última página lleva el resto")
	assert.Equal(t, 3, dto.TotalPages(total, 10))

	// página más allá de la última: vacía, con el total correcto
	req.Page = 4
	entries, total, err = f.uc.History(ctx, testBusinessID, req)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 23, total)
}

// La reconstrucción del caché lo deja igual al fold del libro.
func TestRebuildStockCache_DesdeElLibro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", Delta: 40,
	})
	require.NoError(t, err)
	_, err = f.uc.RegisterAdjustment(ctx, testBusinessID, testUserID, dto.RegisterAdjustmentRequest{
		ProductID: "prod-1", VariantID: "var-a", Delta: 7,
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.RebuildStockCache(ctx, testBusinessID))

	cache := memory.NewStockCacheRepository(f.store)
	row, err := cache.Get(ctx, testBusinessID, entity.StockKey{ProductID: "prod-1"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(40), row.Quantity)

	row, err = cache.Get(ctx, testBusinessID, entity.StockKey{ProductID: "prod-1", VariantID: "var-a"})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(7), row.Quantity)
}
