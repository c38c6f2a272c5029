package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// LineItemRequest línea de compra o venta en el alta por lote.
// ParentID es opcional: si viene pre-asignado debe coincidir en todas las
// líneas del lote (los lotes cruzados se rechazan).
type LineItemRequest struct {
	ParentID  string          `json:"parent_id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest alta atómica de compra con líneas.
type CreatePurchaseRequest struct {
	SupplierID    string            `json:"supplier_id"`
	Date          time.Time         `json:"date"`
	Discount      decimal.Decimal   `json:"discount"`
	Tax           decimal.Decimal   `json:"tax"`
	PaymentStatus string            `json:"payment_status"`
	Items         []LineItemRequest `json:"items"`
}

// CreateSaleRequest alta atómica de venta con líneas.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	Date          time.Time         `json:"date"`
	Discount      decimal.Decimal   `json:"discount"`
	Tax           decimal.Decimal   `json:"tax"`
	PaymentStatus string            `json:"payment_status"`
	Items         []LineItemRequest `json:"items"`
}

// PurchaseResponse compra confirmada con sus líneas.
type PurchaseResponse struct {
	Purchase *entity.Purchase `json:"purchase"`
}

// SaleResponse venta confirmada con sus líneas.
type SaleResponse struct {
	Sale *entity.Sale `json:"sale"`
}
