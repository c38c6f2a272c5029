package entity

import "time"

// Tipos de movimiento del libro de stock (conjunto cerrado).
const (
	MovementKindPurchaseReceipt = "purchase_receipt" // entrada por recepción de compra
	MovementKindSaleIssue       = "sale_issue"       // salida por venta
	MovementKindAdjustment      = "adjustment"       // ajuste manual (delta con signo)
	MovementKindReversal        = "reversal"         // anulación de un movimiento previo
)

// Tipos de referencia: el documento o movimiento que originó la entrada.
const (
	RefKindPurchase = "purchase"
	RefKindSale     = "sale"
	RefKindMovement = "movement" // una reversal referencia al movimiento original
)

// ValidMovementKind indica si kind pertenece al conjunto cerrado de tipos.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindPurchaseReceipt, MovementKindSaleIssue, MovementKindAdjustment, MovementKindReversal:
		return true
	}
	return false
}

// MovementEntry es un hecho inmutable del libro de stock: nunca se actualiza
// ni se borra. Las correcciones se hacen agregando una reversal con el delta
// negado y referencia al movimiento original.
type MovementEntry struct {
	ID         string    `db:"id"`
	BusinessID string    `db:"business_id"`
	ProductID  string    `db:"product_id"`
	VariantID  *string   `db:"variant_id"` // nil => aplica al producto base
	Delta      int64     `db:"delta"`      // positivo entra, negativo sale
	Kind       string    `db:"kind"`
	RefKind    *string   `db:"ref_kind"` // nil para ajustes manuales
	RefID      *string   `db:"ref_id"`
	OccurredAt time.Time `db:"occurred_at"`
	CreatedAt  time.Time `db:"created_at"`
	CreatedBy  string    `db:"created_by"`
}

// StockKey identifica la combinación producto/variante dentro de un negocio.
// VariantID vacío significa producto base. Es comparable y sirve como clave
// de mapa en los folds.
type StockKey struct {
	ProductID string
	VariantID string
}

// Key de la entrada para agrupar en folds.
func (m MovementEntry) Key() StockKey {
	k := StockKey{ProductID: m.ProductID}
	if m.VariantID != nil {
		k.VariantID = *m.VariantID
	}
	return k
}
