package memory

import (
	"context"
	"sort"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ store *Store }

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(store *Store) *PurchaseRepo { return &PurchaseRepo{store: store} }

func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p := *purchase
	p.Items = nil
	r.store.purchases[p.ID] = p
	return nil
}

func (r *PurchaseRepo) CreateItems(ctx context.Context, items []entity.PurchaseItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, it := range items {
		p, ok := r.store.purchases[it.PurchaseID]
		if !ok {
			return domain.ErrReferential
		}
		p.Items = append(p.Items, it)
		r.store.purchases[p.ID] = p
	}
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Purchase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.purchases[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	return &p, nil
}

func (r *PurchaseRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Purchase, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []entity.Purchase
	for _, p := range r.store.purchases {
		if p.BusinessID == businessID {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
	total := len(list)
	if offset >= total {
		return []entity.Purchase{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return list[offset:end], total, nil
}

func (r *PurchaseRepo) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.purchases[id]
	if !ok || p.BusinessID != businessID {
		return domain.ErrNotFound
	}
	p.Status = status
	r.store.purchases[id] = p
	return nil
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ store *Store }

// NewSaleRepository construye el adaptador.
func NewSaleRepository(store *Store) *SaleRepo { return &SaleRepo{store: store} }

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s := *sale
	s.Items = nil
	r.store.sales[s.ID] = s
	return nil
}

func (r *SaleRepo) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, it := range items {
		s, ok := r.store.sales[it.SaleID]
		if !ok {
			return domain.ErrReferential
		}
		s.Items = append(s.Items, it)
		r.store.sales[s.ID] = s
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.sales[id]
	if !ok || s.BusinessID != businessID {
		return nil, nil
	}
	return &s, nil
}

func (r *SaleRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Sale, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []entity.Sale
	for _, s := range r.store.sales {
		if s.BusinessID == businessID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
	total := len(list)
	if offset >= total {
		return []entity.Sale{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return list[offset:end], total, nil
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[id]
	if !ok || s.BusinessID != businessID {
		return domain.ErrNotFound
	}
	s.Status = status
	r.store.sales[id] = s
	return nil
}
