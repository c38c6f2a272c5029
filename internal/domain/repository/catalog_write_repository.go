package repository

import (
	"context"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// ProductRepository puerto CRUD de productos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// MissingIDs devuelve los ids que NO existen para el negocio. Sirve para
	// el chequeo referencial del orquestador en una sola consulta.
	MissingIDs(ctx context.Context, businessID string, ids []string) ([]string, error)
}

// VariantRepository puerto CRUD de variantes.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.Variant, error)
	// MissingIDs devuelve los ids de variante que no existen o no pertenecen
	// a su producto declarado.
	MissingIDs(ctx context.Context, pairs map[string]string) ([]string, error) // variantID -> productID
}

// BrandRepository puerto CRUD de marcas.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Brand, error)
	ListByBusiness(ctx context.Context, businessID string) ([]entity.Brand, error)
}

// SupplierRepository puerto CRUD de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Supplier, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Supplier, int, error)
}

// CustomerRepository puerto CRUD de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Customer, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Customer, int, error)
}

// BusinessRepository puerto CRUD de negocios (tenants).
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	List(ctx context.Context) ([]entity.Business, error)
}
