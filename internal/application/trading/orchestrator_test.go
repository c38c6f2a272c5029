package trading_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/application/trading"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
	"github.com/comerzia/backoffice-api/internal/infrastructure/memory"
)

const (
	testBusinessID = "00000000-0000-0000-0000-0000000000b1"
	testUserID     = "00000000-0000-0000-0000-0000000000u1"
	testSupplierID = "sup-1"
	testCustomerID = "cus-1"
)

type fixture struct {
	store        *memory.Store
	orchestrator *trading.Orchestrator
	ledger       *memory.LedgerRepo
	agg          *stock.Aggregator
}

func newFixture(t *testing.T, cfg trading.Config) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	productRepo := memory.NewProductRepository(store)
	require.NoError(t, productRepo.Create(ctx, &entity.Product{
		ID: "prod-1", BusinessID: testBusinessID, Code: "P-001", Name: "Camiseta",
		Price: decimal.NewFromInt(35000),
	}))
	require.NoError(t, productRepo.Create(ctx, &entity.Product{
		ID: "prod-2", BusinessID: testBusinessID, Code: "P-002", Name: "Taza",
		Price: decimal.NewFromInt(18000),
	}))
	variantRepo := memory.NewVariantRepository(store)
	require.NoError(t, variantRepo.Create(ctx, &entity.Variant{
		ID: "var-m", ProductID: "prod-1", Name: "Talla M",
	}))
	require.NoError(t, memory.NewSupplierRepository(store).Create(ctx, &entity.Supplier{
		ID: testSupplierID, BusinessID: testBusinessID, Name: "Distribuidora",
	}))
	require.NoError(t, memory.NewCustomerRepository(store).Create(ctx, &entity.Customer{
		ID: testCustomerID, BusinessID: testBusinessID, Name: "Cliente",
	}))

	ledgerRepo := memory.NewLedgerRepository(store)
	return &fixture{
		store:  store,
		ledger: ledgerRepo,
		agg:    stock.NewAggregator(ledgerRepo),
		orchestrator: trading.NewOrchestrator(
			memory.NewTxRunner(store),
			productRepo,
			variantRepo,
			memory.NewSupplierRepository(store),
			memory.NewCustomerRepository(store),
			memory.NewPurchaseRepository(store),
			memory.NewSaleRepository(store),
			cfg,
		),
	}
}

func (f *fixture) stockOf(t *testing.T, productID string) int64 {
	t.Helper()
	snap, err := f.agg.CurrentStock(context.Background(), testBusinessID, productID, "")
	require.NoError(t, err)
	return snap.Quantity
}

func (f *fixture) ledgerEntries(t *testing.T) []entity.MovementEntry {
	t.Helper()
	entries, err := f.ledger.Query(context.Background(), repository.LedgerFilter{BusinessID: testBusinessID})
	require.NoError(t, err)
	return entries
}

func price(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// Una compra confirma el documento, sus líneas y un movimiento de entrada
// por línea, en la misma transacción.
func TestCreatePurchase_EmiteMovimientosPorLinea(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	purchase, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items: []dto.LineItemRequest{
			{ProductID: "prod-1", VariantID: "var-m", Quantity: 10, UnitPrice: price(20000)},
			{ProductID: "prod-2", Quantity: 4, UnitPrice: price(9000)},
		},
	})
	require.NoError(t, err)
	require.Len(t, purchase.Items, 2)
	assert.Equal(t, entity.ParentStatusCommitted, purchase.Status)
	assert.True(t, purchase.Subtotal.Equal(price(236000)), "10×20000 + 4×9000")

	entries := f.ledgerEntries(t)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, entity.MovementKindPurchaseReceipt, e.Kind)
		require.NotNil(t, e.RefID)
		assert.Equal(t, purchase.ID, *e.RefID)
	}
	assert.Equal(t, int64(10), f.stockOf(t, "prod-1"))
	assert.Equal(t, int64(4), f.stockOf(t, "prod-2"))
}

// Un lote con una línea inválida no confirma nada: ni documento, ni líneas,
// ni movimientos.
func TestCreatePurchase_LoteInvalidoNoDejaRastro(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	_, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items: []dto.LineItemRequest{
			{ProductID: "prod-1", Quantity: 10, UnitPrice: price(20000)},
			{ProductID: "prod-2", Quantity: 0, UnitPrice: price(9000)}, // cantidad inválida
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.ledgerEntries(t), "el libro debe quedar intacto")

	// producto inexistente en una de las líneas
	_, err = f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items: []dto.LineItemRequest{
			{ProductID: "prod-1", Quantity: 10, UnitPrice: price(20000)},
			{ProductID: "prod-fantasma", Quantity: 1, UnitPrice: price(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrReferential)
	assert.Empty(t, f.ledgerEntries(t))

	list, total, err := memory.NewPurchaseRepository(f.store).ListByBusiness(ctx, testBusinessID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

// Líneas con parent ids pre-asignados distintos se rechazan como lote
// cruzado, sin escribir nada.
func TestCreatePurchase_LoteCruzadoRechazado(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	_, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items: []dto.LineItemRequest{
			{ParentID: "A", ProductID: "prod-1", Quantity: 1, UnitPrice: price(100)},
			{ParentID: "B", ProductID: "prod-2", Quantity: 1, UnitPrice: price(100)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.ledgerEntries(t))
}

// La venta emite movimientos de salida (delta negativo).
func TestCreateSale_EmiteSalidas(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	_, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 50, UnitPrice: price(20000)}},
	})
	require.NoError(t, err)

	sale, err := f.orchestrator.CreateSaleWithItems(ctx, testBusinessID, testUserID, dto.CreateSaleRequest{
		CustomerID: testCustomerID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 12, UnitPrice: price(35000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ParentStatusCommitted, sale.Status)

	assert.Equal(t, int64(38), f.stockOf(t, "prod-1"))
}

// Con enforcement estricto, una venta que dejaría el stock negativo se
// rechaza con ErrInsufficientStock y no escribe nada.
func TestCreateSale_EstrictoRechazaStockNegativo(t *testing.T) {
	f := newFixture(t, trading.Config{StrictStockEnforcement: true})
	ctx := context.Background()

	_, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 5, UnitPrice: price(20000)}},
	})
	require.NoError(t, err)

	_, err = f.orchestrator.CreateSaleWithItems(ctx, testBusinessID, testUserID, dto.CreateSaleRequest{
		CustomerID: testCustomerID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 8, UnitPrice: price(35000)}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stockOf(t, "prod-1"), "nada debe escribirse")

	// dentro del disponible sí pasa
	_, err = f.orchestrator.CreateSaleWithItems(ctx, testBusinessID, testUserID, dto.CreateSaleRequest{
		CustomerID: testCustomerID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 5, UnitPrice: price(35000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.stockOf(t, "prod-1"))
}

// Sin enforcement estricto, el negativo transitorio se admite (backorder).
func TestCreateSale_LaxoAdmiteBackorder(t *testing.T) {
	f := newFixture(t, trading.Config{StrictStockEnforcement: false})
	ctx := context.Background()

	_, err := f.orchestrator.CreateSaleWithItems(ctx, testBusinessID, testUserID, dto.CreateSaleRequest{
		CustomerID: testCustomerID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 8, UnitPrice: price(35000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-8), f.stockOf(t, "prod-1"))
}

// Cancelar una compra agrega reversals por cada movimiento que originó y
// marca el documento como cancelled; el fold vuelve al valor previo.
func TestCancelPurchase_ReversaMovimientos(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	purchase, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items: []dto.LineItemRequest{
			{ProductID: "prod-1", Quantity: 10, UnitPrice: price(20000)},
			{ProductID: "prod-2", Quantity: 4, UnitPrice: price(9000)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.orchestrator.CancelPurchase(ctx, testBusinessID, testUserID, purchase.ID))

	assert.Equal(t, int64(0), f.stockOf(t, "prod-1"))
	assert.Equal(t, int64(0), f.stockOf(t, "prod-2"))
	assert.Len(t, f.ledgerEntries(t), 4, "2 originales + 2 reversals; nada se borra")

	got, err := f.orchestrator.GetPurchase(ctx, testBusinessID, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ParentStatusCancelled, got.Status)
}

// Cancelar dos veces devuelve ErrConflict sin duplicar reversals.
func TestCancelPurchase_DobleCancelacion(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	purchase, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 10, UnitPrice: price(20000)}},
	})
	require.NoError(t, err)

	require.NoError(t, f.orchestrator.CancelPurchase(ctx, testBusinessID, testUserID, purchase.ID))
	err = f.orchestrator.CancelPurchase(ctx, testBusinessID, testUserID, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Len(t, f.ledgerEntries(t), 2, "un original y una sola reversal")
	assert.Equal(t, int64(0), f.stockOf(t, "prod-1"))
}

// Cancelar una venta devuelve el stock vendido.
func TestCancelSale_DevuelveStock(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	_, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: testSupplierID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 20, UnitPrice: price(20000)}},
	})
	require.NoError(t, err)

	sale, err := f.orchestrator.CreateSaleWithItems(ctx, testBusinessID, testUserID, dto.CreateSaleRequest{
		CustomerID: testCustomerID,
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 7, UnitPrice: price(35000)}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(13), f.stockOf(t, "prod-1"))

	require.NoError(t, f.orchestrator.CancelSale(ctx, testBusinessID, testUserID, sale.ID))
	assert.Equal(t, int64(20), f.stockOf(t, "prod-1"))

	got, err := f.orchestrator.GetSale(ctx, testBusinessID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ParentStatusCancelled, got.Status)
}

// Contrapartes inexistentes se rechazan antes de abrir la transacción.
func TestCreate_ContraparteInexistente(t *testing.T) {
	f := newFixture(t, trading.Config{})
	ctx := context.Background()

	_, err := f.orchestrator.CreatePurchaseWithItems(ctx, testBusinessID, testUserID, dto.CreatePurchaseRequest{
		SupplierID: "sup-fantasma",
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 1, UnitPrice: price(100)}},
	})
	assert.ErrorIs(t, err, domain.ErrReferential)

	_, err = f.orchestrator.CreateSaleWithItems(ctx, testBusinessID, testUserID, dto.CreateSaleRequest{
		CustomerID: "cus-fantasma",
		Items:      []dto.LineItemRequest{{ProductID: "prod-1", Quantity: 1, UnitPrice: price(100)}},
	})
	assert.ErrorIs(t, err, domain.ErrReferential)
	assert.Empty(t, f.ledgerEntries(t))
}
