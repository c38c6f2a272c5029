package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del documento padre (compra o venta).
const (
	ParentStatusCommitted = "committed"
	ParentStatusCancelled = "cancelled"
)

// Estados de pago.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Purchase documento de compra: padre de sus líneas. La cancelación nunca
// borra filas; agrega reversals en el libro y cambia Status a cancelled.
type Purchase struct {
	ID            string          `db:"id"`
	BusinessID    string          `db:"business_id"`
	SupplierID    string          `db:"supplier_id"`
	Date          time.Time       `db:"date"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Discount      decimal.Decimal `db:"discount"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	Status        string          `db:"status"`
	PaymentStatus string          `db:"payment_status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	Items []PurchaseItem `db:"-"`
}

// PurchaseItem línea de compra. Subtotal = Quantity × UnitPrice (se persiste
// por conveniencia de consulta, no como fuente de verdad independiente).
type PurchaseItem struct {
	ID         string          `db:"id"`
	PurchaseID string          `db:"purchase_id"`
	ProductID  string          `db:"product_id"`
	VariantID  *string         `db:"variant_id"`
	Quantity   int64           `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	Subtotal   decimal.Decimal `db:"subtotal"`
}
