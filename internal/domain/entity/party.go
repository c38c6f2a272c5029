package entity

import "time"

// Business negocio/tenant. Todas las entidades del catálogo y el libro de
// movimientos pertenecen a un Business.
type Business struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	TaxID     string    `db:"tax_id"`
	Address   string    `db:"address"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Supplier proveedor (contraparte de una compra).
type Supplier struct {
	ID         string    `db:"id"`
	BusinessID string    `db:"business_id"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	Email      string    `db:"email"`
	Address    string    `db:"address"`
	CreatedAt  time.Time `db:"created_at"`
}

// Customer cliente (contraparte de una venta).
type Customer struct {
	ID         string    `db:"id"`
	BusinessID string    `db:"business_id"`
	Name       string    `db:"name"`
	Phone      string    `db:"phone"`
	Email      string    `db:"email"`
	Address    string    `db:"address"`
	CreatedAt  time.Time `db:"created_at"`
}
