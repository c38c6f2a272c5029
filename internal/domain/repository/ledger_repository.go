package repository

import (
	"context"
	"time"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// LedgerFilter filtros de consulta sobre el libro de movimientos.
type LedgerFilter struct {
	BusinessID string
	ProductID  string     // vacío = todos los productos
	VariantID  *string    // nil = todas las variantes; apunta a "" = solo producto base
	RefKind    string     // vacío = cualquier referencia
	RefID      string
	AsOf       *time.Time // nil = hasta ahora (occurred_at <= AsOf)
	From       *time.Time
}

// StockTotal resultado del fold agrupado: suma de deltas por clave.
type StockTotal struct {
	ProductID      string     `db:"product_id"`
	VariantID      *string    `db:"variant_id"`
	Quantity       int64      `db:"quantity"`
	LastMovementAt *time.Time `db:"last_movement_at"`
}

// LedgerRepository puerto del libro de movimientos: append-only.
// No existe Update ni Delete; las correcciones son reversals.
type LedgerRepository interface {
	// Append inserta el lote completo o nada. La validación semántica de las
	// entradas ocurre antes, en la capa de aplicación.
	Append(ctx context.Context, entries []*entity.MovementEntry) error

	// GetByID busca una entrada del negocio por id.
	GetByID(ctx context.Context, businessID, id string) (*entity.MovementEntry, error)

	// Query devuelve las entradas que cumplen el filtro en orden de replay
	// determinista: occurred_at ASC, created_at ASC, id ASC.
	Query(ctx context.Context, filter LedgerFilter) ([]entity.MovementEntry, error)

	// History listado paginado para la vista de movimientos (más reciente
	// primero). Devuelve también el total de filas que cumplen el filtro.
	History(ctx context.Context, filter LedgerFilter, limit, offset int) ([]entity.MovementEntry, int, error)

	// SumByKey pliega todo el rango relevante en UNA sola consulta agrupada
	// por (product_id, variant_id). productIDs vacío = todos los productos
	// del negocio. Este es el contrato de rendimiento de bulkStock: nunca un
	// scan por clave.
	SumByKey(ctx context.Context, businessID string, productIDs []string, asOf *time.Time) ([]StockTotal, error)

	// SumForProduct suma los deltas de todas las entradas del producto
	// (base + variantes) hasta asOf.
	SumForProduct(ctx context.Context, businessID, productID string, asOf *time.Time) (int64, *time.Time, error)

	// SumForVariant suma los deltas de una variante exacta hasta asOf.
	SumForVariant(ctx context.Context, businessID, productID, variantID string, asOf *time.Time) (int64, *time.Time, error)

	// HasReversal indica si ya existe una reversal apuntando a la entrada.
	HasReversal(ctx context.Context, businessID, entryID string) (bool, error)
}
