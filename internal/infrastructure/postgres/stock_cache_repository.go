package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.StockCacheRepository = (*StockCacheRepo)(nil)

// StockCacheRepo caché materializado de stock por (negocio, producto,
// variante). Se mantiene en la misma transacción que los appends al libro y
// se reconstruye desde él: nunca es fuente de verdad. variant_id usa ''
// (string vacío) como centinela del producto base para que el PK compuesto
// funcione.
type StockCacheRepo struct {
	q Querier
}

// NewStockCacheRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCacheRepository(q Querier) *StockCacheRepo {
	return &StockCacheRepo{q: q}
}

// Get obtiene la fila del caché, o nil si no existe.
func (r *StockCacheRepo) Get(ctx context.Context, businessID string, key entity.StockKey) (*entity.StockCacheRow, error) {
	query := `
		SELECT business_id, product_id, variant_id, quantity, updated_at
		FROM stock_cache WHERE business_id = $1 AND product_id = $2 AND variant_id = $3`
	return r.scanRow(r.q.QueryRow(ctx, query, businessID, key.ProductID, key.VariantID))
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar el
// chequeo de stock estricto entre ventas concurrentes de la misma clave.
func (r *StockCacheRepo) GetForUpdate(ctx context.Context, businessID string, key entity.StockKey) (*entity.StockCacheRow, error) {
	query := `
		SELECT business_id, product_id, variant_id, quantity, updated_at
		FROM stock_cache WHERE business_id = $1 AND product_id = $2 AND variant_id = $3
		FOR UPDATE`
	return r.scanRow(r.q.QueryRow(ctx, query, businessID, key.ProductID, key.VariantID))
}

func (r *StockCacheRepo) scanRow(row pgx.Row) (*entity.StockCacheRow, error) {
	var s entity.StockCacheRow
	var variantID string
	err := row.Scan(&s.BusinessID, &s.ProductID, &variantID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock cache: %w", err)
	}
	if variantID != "" {
		s.VariantID = &variantID
	}
	return &s, nil
}

// ApplyDelta suma delta a la fila (upsert).
func (r *StockCacheRepo) ApplyDelta(ctx context.Context, businessID string, key entity.StockKey, delta int64) error {
	query := `
		INSERT INTO stock_cache (business_id, product_id, variant_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (business_id, product_id, variant_id)
		DO UPDATE SET quantity = stock_cache.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, businessID, key.ProductID, key.VariantID, delta); err != nil {
		return fmt.Errorf("apply stock delta: %w", err)
	}
	return nil
}

// Rebuild borra y recalcula el caché del negocio desde el libro en una sola
// sentencia por paso. Ejecutar dentro de una transacción.
func (r *StockCacheRepo) Rebuild(ctx context.Context, businessID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_cache WHERE business_id = $1`, businessID); err != nil {
		return fmt.Errorf("clear stock cache: %w", err)
	}
	query := `
		INSERT INTO stock_cache (business_id, product_id, variant_id, quantity, updated_at)
		SELECT business_id, product_id, COALESCE(variant_id, ''), SUM(delta)::bigint, now()
		FROM stock_movements
		WHERE business_id = $1
		GROUP BY business_id, product_id, COALESCE(variant_id, '')`
	if _, err := r.q.Exec(ctx, query, businessID); err != nil {
		return fmt.Errorf("rebuild stock cache: %w", err)
	}
	return nil
}
