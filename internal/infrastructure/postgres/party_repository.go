package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)
var _ repository.CustomerRepository = (*CustomerRepo)(nil)
var _ repository.BrandRepository = (*BrandRepo)(nil)
var _ repository.BusinessRepository = (*BusinessRepo)(nil)

// SupplierRepo proveedores sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor.
func (r *SupplierRepo) Create(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, business_id, name, phone, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		supplier.ID, supplier.BusinessID, supplier.Name, supplier.Phone,
		supplier.Email, supplier.Address, supplier.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID proveedor del negocio por ID, o nil.
func (r *SupplierRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Supplier, error) {
	query := `
		SELECT id, business_id, name, phone, email, address, created_at
		FROM suppliers WHERE business_id = $1 AND id = $2`
	var s entity.Supplier
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(
		&s.ID, &s.BusinessID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// ListByBusiness listado paginado con total.
func (r *SupplierRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Supplier, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers WHERE business_id = $1`, businessID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	query := `
		SELECT id, business_id, name, phone, email, address, created_at
		FROM suppliers WHERE business_id = $1 ORDER BY name ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// CustomerRepo clientes sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, business_id, name, phone, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.BusinessID, customer.Name, customer.Phone,
		customer.Email, customer.Address, customer.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID cliente del negocio por ID, o nil.
func (r *CustomerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error) {
	query := `
		SELECT id, business_id, name, phone, email, address, created_at
		FROM customers WHERE business_id = $1 AND id = $2`
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// ListByBusiness listado paginado con total.
func (r *CustomerRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Customer, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE business_id = $1`, businessID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}
	query := `
		SELECT id, business_id, name, phone, email, address, created_at
		FROM customers WHERE business_id = $1 ORDER BY name ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// BrandRepo marcas sobre PostgreSQL (usable con pool o tx).
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

// Create persiste una marca.
func (r *BrandRepo) Create(ctx context.Context, brand *entity.Brand) error {
	query := `
		INSERT INTO brands (id, business_id, name, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, brand.ID, brand.BusinessID, brand.Name, brand.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

// GetByID marca del negocio por ID, o nil.
func (r *BrandRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Brand, error) {
	query := `
		SELECT id, business_id, name, created_at
		FROM brands WHERE business_id = $1 AND id = $2`
	var b entity.Brand
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(&b.ID, &b.BusinessID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

// ListByBusiness marcas del negocio.
func (r *BrandRepo) ListByBusiness(ctx context.Context, businessID string) ([]entity.Brand, error) {
	query := `
		SELECT id, business_id, name, created_at
		FROM brands WHERE business_id = $1 ORDER BY name ASC, id ASC`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.BusinessID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// BusinessRepo negocios (tenants) sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador.
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

// Create persiste un negocio.
func (r *BusinessRepo) Create(ctx context.Context, business *entity.Business) error {
	query := `
		INSERT INTO businesses (id, name, tax_id, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		business.ID, business.Name, business.TaxID, business.Address,
		business.Phone, business.Email, business.CreatedAt, business.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID negocio por ID, o nil.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	query := `
		SELECT id, name, tax_id, address, phone, email, created_at, updated_at
		FROM businesses WHERE id = $1`
	var b entity.Business
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.TaxID, &b.Address, &b.Phone, &b.Email, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

// List todos los negocios.
func (r *BusinessRepo) List(ctx context.Context) ([]entity.Business, error) {
	query := `
		SELECT id, name, tax_id, address, phone, email, created_at, updated_at
		FROM businesses ORDER BY name ASC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()
	var list []entity.Business
	for rows.Next() {
		var b entity.Business
		if err := rows.Scan(&b.ID, &b.Name, &b.TaxID, &b.Address, &b.Phone, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
