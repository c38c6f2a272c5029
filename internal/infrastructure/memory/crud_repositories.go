package memory

import (
	"context"
	"sort"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.VariantRepository = (*VariantRepo)(nil)
var _ repository.BrandRepository = (*BrandRepo)(nil)
var _ repository.SupplierRepository = (*SupplierRepo)(nil)
var _ repository.CustomerRepository = (*CustomerRepo)(nil)
var _ repository.StockCacheRepository = (*StockCacheRepo)(nil)
var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)
var _ repository.SaleRepository = (*SaleRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ store *Store }

// NewProductRepository construye el adaptador.
func NewProductRepository(store *Store) *ProductRepo { return &ProductRepo{store: store} }

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) MissingIDs(ctx context.Context, businessID string, ids []string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var missing []string
	for _, id := range ids {
		p, ok := r.store.products[id]
		if !ok || p.BusinessID != businessID {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// VariantRepo variantes en memoria.
type VariantRepo struct{ store *Store }

// NewVariantRepository construye el adaptador.
func NewVariantRepository(store *Store) *VariantRepo { return &VariantRepo{store: store} }

func (r *VariantRepo) Create(ctx context.Context, variant *entity.Variant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.variants[variant.ID] = *variant
	if p, ok := r.store.products[variant.ProductID]; ok {
		p.HasVariants = true
		r.store.products[p.ID] = p
	}
	return nil
}

func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	v, ok := r.store.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]entity.Variant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []entity.Variant
	for _, v := range r.store.variants {
		if v.ProductID == productID {
			list = append(list, v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *VariantRepo) MissingIDs(ctx context.Context, pairs map[string]string) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var missing []string
	for variantID, productID := range pairs {
		v, ok := r.store.variants[variantID]
		if !ok || v.ProductID != productID {
			missing = append(missing, variantID)
		}
	}
	return missing, nil
}

// BrandRepo marcas en memoria.
type BrandRepo struct{ store *Store }

// NewBrandRepository construye el adaptador.
func NewBrandRepository(store *Store) *BrandRepo { return &BrandRepo{store: store} }

func (r *BrandRepo) Create(ctx context.Context, brand *entity.Brand) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.brands[brand.ID] = *brand
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Brand, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.brands[id]
	if !ok || b.BusinessID != businessID {
		return nil, nil
	}
	return &b, nil
}

func (r *BrandRepo) ListByBusiness(ctx context.Context, businessID string) ([]entity.Brand, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []entity.Brand
	for _, b := range r.store.brands {
		if b.BusinessID == businessID {
			list = append(list, b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ store *Store }

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(store *Store) *SupplierRepo { return &SupplierRepo{store: store} }

func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Supplier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.suppliers[id]
	if !ok || s.BusinessID != businessID {
		return nil, nil
	}
	return &s, nil
}

func (r *SupplierRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Supplier, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []entity.Supplier
	for _, s := range r.store.suppliers {
		if s.BusinessID == businessID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	total := len(list)
	if offset >= total {
		return []entity.Supplier{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return list[offset:end], total, nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ store *Store }

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(store *Store) *CustomerRepo { return &CustomerRepo{store: store} }

func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.customers[id]
	if !ok || c.BusinessID != businessID {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Customer, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var list []entity.Customer
	for _, c := range r.store.customers {
		if c.BusinessID == businessID {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	total := len(list)
	if offset >= total {
		return []entity.Customer{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return list[offset:end], total, nil
}
