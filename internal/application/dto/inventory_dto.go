package dto

import "time"

// RegisterAdjustmentRequest ajuste manual de stock (delta con signo).
type RegisterAdjustmentRequest struct {
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id"`
	Delta      int64     `json:"delta"`
	OccurredAt time.Time `json:"occurred_at"`
	Note       string    `json:"note"`
}

// StockResponse stock derivado de una clave producto/variante.
type StockResponse struct {
	ProductID      string     `json:"product_id"`
	VariantID      string     `json:"variant_id,omitempty"`
	Quantity       int64      `json:"quantity"`
	LastMovementAt *time.Time `json:"last_movement_at,omitempty"`
}

// MovementDTO entrada del libro en respuestas HTTP.
type MovementDTO struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	VariantID  string    `json:"variant_id,omitempty"`
	Delta      int64     `json:"delta"`
	Kind       string    `json:"kind"`
	RefKind    string    `json:"ref_kind,omitempty"`
	RefID      string    `json:"ref_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListMovementsRequest filtros del historial de movimientos.
type ListMovementsRequest struct {
	ProductID string `query:"product_id"`
	VariantID string `query:"variant_id"`
	From      string `query:"from"` // RFC3339
	To        string `query:"to"`
	PageRequest
}
