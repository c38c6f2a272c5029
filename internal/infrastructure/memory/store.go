// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en tests de casos de uso y en modo demo: mismo contrato
// que los adaptadores PostgreSQL, sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	movements  []entity.MovementEntry
	stockCache map[string]map[entity.StockKey]int64 // businessID -> key -> qty
	products   map[string]entity.Product
	variants   map[string]entity.Variant
	brands     map[string]entity.Brand
	suppliers  map[string]entity.Supplier
	customers  map[string]entity.Customer
	purchases  map[string]entity.Purchase
	sales      map[string]entity.Sale

	// FoldQueries cuenta las consultas de fold agrupado (SumByKey). Permite
	// asegurar en tests que bulkStock hace una sola pasada sin importar
	// cuántas claves se pidan.
	FoldQueries int
}

// NewStore construye el estado vacío.
func NewStore() *Store {
	return &Store{
		stockCache: map[string]map[entity.StockKey]int64{},
		products:   map[string]entity.Product{},
		variants:   map[string]entity.Variant{},
		brands:     map[string]entity.Brand{},
		suppliers:  map[string]entity.Supplier{},
		customers:  map[string]entity.Customer{},
		purchases:  map[string]entity.Purchase{},
		sales:      map[string]entity.Sale{},
	}
}

// snapshot copia el estado mutable para poder restaurarlo en rollback.
func (s *Store) snapshot() *Store {
	clone := NewStore()
	clone.movements = append([]entity.MovementEntry(nil), s.movements...)
	for biz, keys := range s.stockCache {
		m := map[entity.StockKey]int64{}
		for k, v := range keys {
			m[k] = v
		}
		clone.stockCache[biz] = m
	}
	for k, v := range s.products {
		clone.products[k] = v
	}
	for k, v := range s.variants {
		clone.variants[k] = v
	}
	for k, v := range s.brands {
		clone.brands[k] = v
	}
	for k, v := range s.suppliers {
		clone.suppliers[k] = v
	}
	for k, v := range s.customers {
		clone.customers[k] = v
	}
	for k, v := range s.purchases {
		clone.purchases[k] = v
	}
	for k, v := range s.sales {
		clone.sales[k] = v
	}
	return clone
}

func (s *Store) restore(from *Store) {
	s.movements = from.movements
	s.stockCache = from.stockCache
	s.products = from.products
	s.variants = from.variants
	s.brands = from.brands
	s.suppliers = from.suppliers
	s.customers = from.customers
	s.purchases = from.purchases
	s.sales = from.sales
}

// TxSet repositorios atados al store.
func (s *Store) TxSet() repository.TxSet {
	return repository.TxSet{
		Ledger:     NewLedgerRepository(s),
		Purchases:  NewPurchaseRepository(s),
		Sales:      NewSaleRepository(s),
		Products:   NewProductRepository(s),
		Variants:   NewVariantRepository(s),
		StockCache: NewStockCacheRepository(s),
	}
}

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner transaccionalidad por snapshot: copia el estado antes de fn y lo
// restaura ante error. Replica el commit-or-abort del TxRunner PostgreSQL.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn contra el store; ante error restaura el snapshot previo.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxSet) error) error {
	r.store.mu.Lock()
	before := r.store.snapshot()
	r.store.mu.Unlock()

	if err := fn(r.store.TxSet()); err != nil {
		r.store.mu.Lock()
		r.store.restore(before)
		r.store.mu.Unlock()
		return err
	}
	return nil
}

// entryMatches aplica un LedgerFilter a una entrada.
func entryMatches(e entity.MovementEntry, f repository.LedgerFilter) bool {
	if e.BusinessID != f.BusinessID {
		return false
	}
	if f.ProductID != "" && e.ProductID != f.ProductID {
		return false
	}
	if f.VariantID != nil {
		if *f.VariantID == "" {
			if e.VariantID != nil {
				return false
			}
		} else if e.VariantID == nil || *e.VariantID != *f.VariantID {
			return false
		}
	}
	if f.RefKind != "" {
		if e.RefKind == nil || *e.RefKind != f.RefKind {
			return false
		}
	}
	if f.RefID != "" {
		if e.RefID == nil || *e.RefID != f.RefID {
			return false
		}
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.AsOf != nil && e.OccurredAt.After(*f.AsOf) {
		return false
	}
	return true
}

// replayOrder orden determinista: occurred_at, created_at, id.
func replayOrder(entries []entity.MovementEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.Before(entries[j].OccurredAt)
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
