package entity

import "time"

// StockSnapshot es el stock derivado de un producto/variante a un instante.
// Se recalcula en lectura plegando el libro de movimientos; nunca es fuente
// de verdad.
type StockSnapshot struct {
	ProductID      string
	VariantID      *string
	Quantity       int64
	LastMovementAt *time.Time // nil si no hay movimientos para la clave
}

// StockCacheRow es la fila materializada de stock por (producto, variante).
// Es un caché mantenido en la misma transacción que los appends al libro;
// reconstruible desde el libro en cualquier momento. No es autoritativo.
type StockCacheRow struct {
	BusinessID string    `db:"business_id"`
	ProductID  string    `db:"product_id"`
	VariantID  *string   `db:"variant_id"`
	Quantity   int64     `db:"quantity"`
	UpdatedAt  time.Time `db:"updated_at"`
}
