package memory

import (
	"context"
	"time"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro de movimientos en memoria, append-only.
type LedgerRepo struct {
	store *Store
}

// NewLedgerRepository construye el adaptador.
func NewLedgerRepository(store *Store) *LedgerRepo {
	return &LedgerRepo{store: store}
}

// Append agrega el lote completo. Replica la protección del índice único de
// reversals: una segunda reversal a la misma entrada falla con ErrConflict.
func (r *LedgerRepo) Append(ctx context.Context, entries []*entity.MovementEntry) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.Kind == entity.MovementKindReversal && e.RefID != nil {
			for _, existing := range s.movements {
				if existing.Kind == entity.MovementKindReversal &&
					existing.RefID != nil && *existing.RefID == *e.RefID &&
					existing.BusinessID == e.BusinessID {
					return domain.ErrConflict
				}
			}
		}
	}
	for _, e := range entries {
		s.movements = append(s.movements, *e)
	}
	return nil
}

// GetByID entrada por id, o nil.
func (r *LedgerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.MovementEntry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.movements {
		if e.BusinessID == businessID && e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

// Query entradas en orden de replay determinista.
func (r *LedgerRepo) Query(ctx context.Context, filter repository.LedgerFilter) ([]entity.MovementEntry, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.MovementEntry
	for _, e := range s.movements {
		if entryMatches(e, filter) {
			out = append(out, e)
		}
	}
	replayOrder(out)
	return out, nil
}

// History listado paginado, más reciente primero.
func (r *LedgerRepo) History(ctx context.Context, filter repository.LedgerFilter, limit, offset int) ([]entity.MovementEntry, int, error) {
	all, err := r.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	// invertir el orden de replay
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	total := len(all)
	if offset >= total {
		return []entity.MovementEntry{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// SumByKey fold agrupado en una sola pasada. Incrementa FoldQueries para la
// instrumentación de tests.
func (r *LedgerRepo) SumByKey(ctx context.Context, businessID string, productIDs []string, asOf *time.Time) ([]repository.StockTotal, error) {
	s := r.store
	s.mu.Lock()
	s.FoldQueries++
	s.mu.Unlock()

	wanted := map[string]bool{}
	for _, id := range productIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	type agg struct {
		qty  int64
		last time.Time
	}
	acc := map[entity.StockKey]*agg{}
	for _, e := range s.movements {
		if e.BusinessID != businessID {
			continue
		}
		if len(wanted) > 0 && !wanted[e.ProductID] {
			continue
		}
		if asOf != nil && e.OccurredAt.After(*asOf) {
			continue
		}
		key := e.Key()
		a, ok := acc[key]
		if !ok {
			a = &agg{}
			acc[key] = a
		}
		a.qty += e.Delta
		if e.OccurredAt.After(a.last) {
			a.last = e.OccurredAt
		}
	}

	out := make([]repository.StockTotal, 0, len(acc))
	for key, a := range acc {
		t := repository.StockTotal{ProductID: key.ProductID, Quantity: a.qty}
		if key.VariantID != "" {
			v := key.VariantID
			t.VariantID = &v
		}
		last := a.last
		t.LastMovementAt = &last
		out = append(out, t)
	}
	return out, nil
}

// SumForProduct suma base + variantes del producto.
func (r *LedgerRepo) SumForProduct(ctx context.Context, businessID, productID string, asOf *time.Time) (int64, *time.Time, error) {
	return r.sum(businessID, productID, nil, asOf)
}

// SumForVariant suma de la variante exacta.
func (r *LedgerRepo) SumForVariant(ctx context.Context, businessID, productID, variantID string, asOf *time.Time) (int64, *time.Time, error) {
	return r.sum(businessID, productID, &variantID, asOf)
}

func (r *LedgerRepo) sum(businessID, productID string, variantID *string, asOf *time.Time) (int64, *time.Time, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var qty int64
	var last *time.Time
	for _, e := range s.movements {
		if e.BusinessID != businessID || e.ProductID != productID {
			continue
		}
		if variantID != nil && (e.VariantID == nil || *e.VariantID != *variantID) {
			continue
		}
		if asOf != nil && e.OccurredAt.After(*asOf) {
			continue
		}
		qty += e.Delta
		if last == nil || e.OccurredAt.After(*last) {
			t := e.OccurredAt
			last = &t
		}
	}
	return qty, last, nil
}

// HasReversal indica si ya existe una reversal apuntando a la entrada.
func (r *LedgerRepo) HasReversal(ctx context.Context, businessID, entryID string) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.movements {
		if e.BusinessID == businessID && e.Kind == entity.MovementKindReversal &&
			e.RefID != nil && *e.RefID == entryID {
			return true, nil
		}
	}
	return false, nil
}
