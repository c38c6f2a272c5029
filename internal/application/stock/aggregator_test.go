package stock_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/infrastructure/memory"
)

const testBusinessID = "00000000-0000-0000-0000-0000000000b1"

func appendEntry(t *testing.T, store *memory.Store, productID, variantID string, delta int64, occurredAt time.Time) *entity.MovementEntry {
	t.Helper()
	kind := entity.MovementKindAdjustment
	e := &entity.MovementEntry{
		ID:         uuid.New().String(),
		BusinessID: testBusinessID,
		ProductID:  productID,
		Delta:      delta,
		Kind:       kind,
		OccurredAt: occurredAt,
		CreatedAt:  occurredAt,
		CreatedBy:  "tester",
	}
	if variantID != "" {
		e.VariantID = &variantID
	}
	require.NoError(t, memory.NewLedgerRepository(store).Append(context.Background(), []*entity.MovementEntry{e}))
	return e
}

// El fold de un conjunto de entradas es la suma simple de sus deltas, y una
// reversal (delta negado) cancela exactamente a su original.
func TestFoldEntries_SumaSimpleConReversals(t *testing.T) {
	entries := []entity.MovementEntry{
		{Delta: 50},
		{Delta: -12},
		{Delta: 7},
	}
	assert.Equal(t, int64(45), stock.FoldEntries(entries))

	// par original + reversal: neto cero
	entries = append(entries, entity.MovementEntry{Delta: -45})
	assert.Equal(t, int64(0), stock.FoldEntries(entries))
}

// El stock actual de un producto es el fold de todas sus entradas,
// incluyendo las de sus variantes.
func TestCurrentStock_AgregaProductoYVariantes(t *testing.T) {
	store := memory.NewStore()
	agg := stock.NewAggregator(memory.NewLedgerRepository(store))
	now := time.Now()

	appendEntry(t, store, "prod-1", "", 50, now.Add(-3*time.Hour))
	appendEntry(t, store, "prod-1", "var-a", 20, now.Add(-2*time.Hour))
	appendEntry(t, store, "prod-1", "var-a", -5, now.Add(-1*time.Hour))
	appendEntry(t, store, "prod-2", "", 99, now) // otro producto, no cuenta

	snap, err := agg.CurrentStock(context.Background(), testBusinessID, "prod-1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(65), snap.Quantity, "base 50 + variante 20 - 5")
	require.NotNil(t, snap.LastMovementAt)

	// variante exacta
	snap, err = agg.CurrentStock(context.Background(), testBusinessID, "prod-1", "var-a")
	require.NoError(t, err)
	assert.Equal(t, int64(15), snap.Quantity)
}

// as_of corta el fold en el instante pedido: las entradas posteriores no
// participan.
func TestStockAsOf_CorteHistorico(t *testing.T) {
	store := memory.NewStore()
	agg := stock.NewAggregator(memory.NewLedgerRepository(store))
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	appendEntry(t, store, "prod-1", "", 50, base)
	appendEntry(t, store, "prod-1", "", -12, base.Add(24*time.Hour))

	cutoff := base.Add(time.Hour)
	snap, err := agg.StockAsOf(context.Background(), testBusinessID, "prod-1", "", &cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(50), snap.Quantity, "la salida del día siguiente no debe contar")

	snap, err = agg.StockAsOf(context.Background(), testBusinessID, "prod-1", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(38), snap.Quantity)
}

// Una clave sin movimientos pliega a cero, sin error.
func TestCurrentStock_SinMovimientosEsCero(t *testing.T) {
	store := memory.NewStore()
	agg := stock.NewAggregator(memory.NewLedgerRepository(store))

	snap, err := agg.CurrentStock(context.Background(), testBusinessID, "prod-sin-historia", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Quantity)
	assert.Nil(t, snap.LastMovementAt)
}

// BulkStock resuelve cientos de claves con UNA sola consulta agrupada:
// el costo es O(entradas en rango), no O(claves).
func TestBulkStock_UnaSolaConsultaParaMuchasClaves(t *testing.T) {
	store := memory.NewStore()
	agg := stock.NewAggregator(memory.NewLedgerRepository(store))
	now := time.Now()

	productIDs := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		pid := fmt.Sprintf("prod-%03d", i)
		productIDs = append(productIDs, pid)
		appendEntry(t, store, pid, "", int64(i+1), now.Add(-time.Minute))
	}

	store.FoldQueries = 0
	totals, err := agg.BulkStock(context.Background(), testBusinessID, productIDs, nil, true)
	require.NoError(t, err)

	assert.Equal(t, 1, store.FoldQueries, "500 claves deben resolverse con una consulta agrupada")
	assert.Len(t, totals, 500)
	assert.Equal(t, int64(1), totals[entity.StockKey{ProductID: "prod-000"}])
	assert.Equal(t, int64(500), totals[entity.StockKey{ProductID: "prod-499"}])
}

// A nivel producto, BulkStock colapsa base y variantes en una sola clave.
func TestBulkStock_NivelProductoColapsaVariantes(t *testing.T) {
	store := memory.NewStore()
	agg := stock.NewAggregator(memory.NewLedgerRepository(store))
	now := time.Now()

	appendEntry(t, store, "prod-1", "", 10, now)
	appendEntry(t, store, "prod-1", "var-a", 5, now)
	appendEntry(t, store, "prod-1", "var-b", 3, now)

	totals, err := agg.BulkStock(context.Background(), testBusinessID, []string{"prod-1"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, int64(18), totals[entity.StockKey{ProductID: "prod-1"}])

	// a nivel variante las claves quedan separadas
	totals, err = agg.BulkStock(context.Background(), testBusinessID, []string{"prod-1"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), totals[entity.StockKey{ProductID: "prod-1"}])
	assert.Equal(t, int64(5), totals[entity.StockKey{ProductID: "prod-1", VariantID: "var-a"}])
	assert.Equal(t, int64(3), totals[entity.StockKey{ProductID: "prod-1", VariantID: "var-b"}])
}
