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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, business_id, brand_id, code, name, description, price, has_variants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.BusinessID, product.BrandID, product.Code, product.Name,
		product.Description, product.Price, product.HasVariants, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del negocio por ID, o nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Product, error) {
	query := `
		SELECT id, business_id, brand_id, code, name, description, price, has_variants, created_at, updated_at
		FROM products WHERE business_id = $1 AND id = $2`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(
		&p.ID, &p.BusinessID, &p.BrandID, &p.Code, &p.Name,
		&p.Description, &p.Price, &p.HasVariants, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los datos descriptivos. El stock no vive en esta tabla.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET brand_id = $3, code = $4, name = $5, description = $6, price = $7, has_variants = $8, updated_at = $9
		WHERE business_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		product.BusinessID, product.ID, product.BrandID, product.Code, product.Name,
		product.Description, product.Price, product.HasVariants, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// MissingIDs devuelve los ids que no existen para el negocio, en una sola
// consulta (chequeo referencial del orquestador).
func (r *ProductRepo) MissingIDs(ctx context.Context, businessID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT wanted.id
		FROM unnest($2::text[]) AS wanted(id)
		LEFT JOIN products p ON p.id = wanted.id AND p.business_id = $1
		WHERE p.id IS NULL`
	rows, err := r.q.Query(ctx, query, businessID, ids)
	if err != nil {
		return nil, fmt.Errorf("check product ids: %w", err)
	}
	defer rows.Close()
	var missing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan missing id: %w", err)
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}
