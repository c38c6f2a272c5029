package memory

import (
	"context"
	"time"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// StockCacheRepo caché de stock sobre mapas. El bloqueo de fila del adaptador
// PostgreSQL se reemplaza por el mutex del store, suficiente para los tests.
type StockCacheRepo struct{ store *Store }

// NewStockCacheRepository construye el adaptador.
func NewStockCacheRepository(store *Store) *StockCacheRepo {
	return &StockCacheRepo{store: store}
}

func (r *StockCacheRepo) Get(ctx context.Context, businessID string, key entity.StockKey) (*entity.StockCacheRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.row(businessID, key), nil
}

func (r *StockCacheRepo) GetForUpdate(ctx context.Context, businessID string, key entity.StockKey) (*entity.StockCacheRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.row(businessID, key), nil
}

func (r *StockCacheRepo) row(businessID string, key entity.StockKey) *entity.StockCacheRow {
	keys, ok := r.store.stockCache[businessID]
	if !ok {
		return nil
	}
	qty, ok := keys[key]
	if !ok {
		return nil
	}
	row := &entity.StockCacheRow{
		BusinessID: businessID,
		ProductID:  key.ProductID,
		Quantity:   qty,
		UpdatedAt:  time.Now(),
	}
	if key.VariantID != "" {
		v := key.VariantID
		row.VariantID = &v
	}
	return row
}

func (r *StockCacheRepo) ApplyDelta(ctx context.Context, businessID string, key entity.StockKey, delta int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	keys, ok := r.store.stockCache[businessID]
	if !ok {
		keys = map[entity.StockKey]int64{}
		r.store.stockCache[businessID] = keys
	}
	keys[key] += delta
	return nil
}

func (r *StockCacheRepo) Rebuild(ctx context.Context, businessID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	keys := map[entity.StockKey]int64{}
	for _, e := range r.store.movements {
		if e.BusinessID != businessID {
			continue
		}
		keys[e.Key()] += e.Delta
	}
	r.store.stockCache[businessID] = keys
	return nil
}
