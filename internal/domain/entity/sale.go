package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale documento de venta: simétrico a Purchase con deltas negativos en el
// libro de movimientos.
type Sale struct {
	ID            string          `db:"id"`
	BusinessID    string          `db:"business_id"`
	CustomerID    string          `db:"customer_id"`
	Date          time.Time       `db:"date"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	PaymentStatus string          `db:"payment_status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	Items []SaleItem `db:"-"`
}

// SaleItem línea de venta.
type SaleItem struct {
	ID        string          `db:"id"`
	SaleID    string          `db:"sale_id"`
	ProductID string          `db:"product_id"`
	VariantID *string         `db:"variant_id"`
	Quantity  int64           `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Subtotal  decimal.Decimal `db:"subtotal"`
}
