package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementación del puerto VariantRepository sobre PostgreSQL
// (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante y marca has_variants en el producto.
func (r *VariantRepo) Create(ctx context.Context, variant *entity.Variant) error {
	query := `
		INSERT INTO variants (id, product_id, name, sku, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		variant.ID, variant.ProductID, variant.Name, variant.SKU, variant.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrReferential
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	_, err = r.q.Exec(ctx, `UPDATE products SET has_variants = true WHERE id = $1`, variant.ProductID)
	if err != nil {
		return fmt.Errorf("flag has_variants: %w", err)
	}
	return nil
}

// GetByID obtiene una variante por ID, o nil si no existe.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	query := `
		SELECT id, product_id, name, sku, created_at
		FROM variants WHERE id = $1`
	var v entity.Variant
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// ListByProduct variantes de un producto.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]entity.Variant, error) {
	query := `
		SELECT id, product_id, name, sku, created_at
		FROM variants WHERE product_id = $1 ORDER BY name ASC, id ASC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.SKU, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// MissingIDs devuelve los ids de variante que no existen o no pertenecen a
// su producto declarado (chequeo referencial en una consulta).
func (r *VariantRepo) MissingIDs(ctx context.Context, pairs map[string]string) ([]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	variantIDs := make([]string, 0, len(pairs))
	productIDs := make([]string, 0, len(pairs))
	for variantID, productID := range pairs {
		variantIDs = append(variantIDs, variantID)
		productIDs = append(productIDs, productID)
	}
	query := `
		SELECT wanted.variant_id
		FROM unnest($1::text[], $2::text[]) AS wanted(variant_id, product_id)
		LEFT JOIN variants v ON v.id = wanted.variant_id AND v.product_id = wanted.product_id
		WHERE v.id IS NULL`
	rows, err := r.q.Query(ctx, query, variantIDs, productIDs)
	if err != nil {
		return nil, fmt.Errorf("check variant ids: %w", err)
	}
	defer rows.Close()
	var missing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan missing variant: %w", err)
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}
