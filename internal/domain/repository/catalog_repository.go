package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Campos de ordenamiento permitidos en los listados del catálogo.
// SortFieldStock se resuelve en memoria (el stock es derivado, no columna).
const (
	SortFieldName      = "name"
	SortFieldCode      = "code"
	SortFieldCreatedAt = "created_at"
	SortFieldStock     = "stock"
)

// Direcciones de ordenamiento.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	BusinessID string
	Name       string // match parcial, case-insensitive
	Code       string // match exacto
	BrandID    string
}

// ListSort ordenamiento SQL (campo ya validado contra la whitelist).
type ListSort struct {
	Field     string
	Direction string
}

// ProductRow proyección del catálogo para listados a nivel producto.
type ProductRow struct {
	ID          string          `db:"id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	BrandID     *string         `db:"brand_id"`
	BrandName   *string         `db:"brand_name"`
	Price       decimal.Decimal `db:"price"`
	HasVariants bool            `db:"has_variants"`
	CreatedAt   time.Time       `db:"created_at"`
}

// VariantRow proyección para listados a nivel variante.
type VariantRow struct {
	ProductID   string    `db:"product_id"`
	VariantID   string    `db:"variant_id"`
	ProductCode string    `db:"product_code"`
	ProductName string    `db:"product_name"`
	VariantName string    `db:"variant_name"`
	SKU         string    `db:"sku"`
	BrandID     *string   `db:"brand_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// CatalogRepository puerto de lectura del catálogo para la capa de join.
// limit <= 0 devuelve el conjunto candidato completo (necesario para ordenar
// por stock antes de paginar).
type CatalogRepository interface {
	CountProducts(ctx context.Context, filter ProductFilter) (int, error)
	ListProducts(ctx context.Context, filter ProductFilter, sort ListSort, limit, offset int) ([]ProductRow, error)

	CountVariants(ctx context.Context, filter ProductFilter) (int, error)
	ListVariants(ctx context.Context, filter ProductFilter, sort ListSort, limit, offset int) ([]VariantRow, error)
}
