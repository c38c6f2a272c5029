package repository

import (
	"context"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// StockCacheRepository puerto del caché materializado de stock. El caché se
// mantiene en la misma transacción que los appends al libro y es
// reconstruible desde él; el libro sigue siendo la fuente de verdad.
type StockCacheRepository interface {
	Get(ctx context.Context, businessID string, key entity.StockKey) (*entity.StockCacheRow, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar el
	// chequeo de stock estricto dentro de la transacción de escritura.
	GetForUpdate(ctx context.Context, businessID string, key entity.StockKey) (*entity.StockCacheRow, error)
	// ApplyDelta suma delta a la fila (upsert).
	ApplyDelta(ctx context.Context, businessID string, key entity.StockKey, delta int64) error
	// Rebuild borra y recalcula el caché del negocio desde el libro.
	Rebuild(ctx context.Context, businessID string) error
}
