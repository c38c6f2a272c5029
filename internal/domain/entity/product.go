package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo. El stock no vive aquí: se deriva del libro
// de movimientos.
type Product struct {
	ID          string          `db:"id"`
	BusinessID  string          `db:"business_id"`
	BrandID     *string         `db:"brand_id"`
	Code        string          `db:"code"` // SKU / código interno
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	HasVariants bool            `db:"has_variants"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Variant variante de un producto (talla, color, etc.).
type Variant struct {
	ID        string    `db:"id"`
	ProductID string    `db:"product_id"`
	Name      string    `db:"name"`
	SKU       string    `db:"sku"`
	CreatedAt time.Time `db:"created_at"`
}

// Brand marca del catálogo.
type Brand struct {
	ID         string    `db:"id"`
	BusinessID string    `db:"business_id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
}
