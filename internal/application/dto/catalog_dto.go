package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Niveles de listado del catálogo: a nivel producto (stock agregado sobre
// todas sus variantes) o a nivel variante.
const (
	ListLevelProduct = "product"
	ListLevelVariant = "variant"
)

// ListCatalogRequest parámetros del listado de catálogo con stock derivado.
type ListCatalogRequest struct {
	Name    string `query:"name"`
	Code    string `query:"code"`
	BrandID string `query:"brand_id"`
	Level   string `query:"level"`     // product (default) | variant
	SortBy  string `query:"sort_by"`   // name | code | created_at | stock
	SortDir string `query:"sort_dir"`  // asc (default) | desc
	AsOf    string `query:"as_of"`     // RFC3339, opcional: stock histórico
	PageRequest
}

// CatalogRowDTO fila del listado: identidad del catálogo + stock derivado.
type CatalogRowDTO struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	VariantName string          `json:"variant_name,omitempty"`
	BrandID     string          `json:"brand_id,omitempty"`
	BrandName   string          `json:"brand_name,omitempty"`
	Price       decimal.Decimal `json:"price,omitempty"`
	Stock       int64           `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BrandID     string          `json:"brand_id"`
	Price       decimal.Decimal `json:"price"`
}

// CreateVariantRequest alta de variante para un producto.
type CreateVariantRequest struct {
	Name string `json:"name"`
	SKU  string `json:"sku"`
}
