package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lecturas de catálogo para la capa de join: filtros dinámicos,
// orden por whitelist y paginación en SQL. El orden por stock no pasa por
// aquí (el stock es derivado; lo resuelve la capa de aplicación).
type CatalogRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func productWhere(q squirrel.SelectBuilder, f repository.ProductFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"p.business_id": f.BusinessID})
	if f.Name != "" {
		q = q.Where(squirrel.ILike{"p.name": "%" + f.Name + "%"})
	}
	if f.Code != "" {
		q = q.Where(squirrel.Eq{"p.code": f.Code})
	}
	if f.BrandID != "" {
		q = q.Where(squirrel.Eq{"p.brand_id": f.BrandID})
	}
	return q
}

// sortColumns whitelist de columnas ordenables a nivel producto.
var sortColumns = map[string]string{
	repository.SortFieldName:      "p.name",
	repository.SortFieldCode:      "p.code",
	repository.SortFieldCreatedAt: "p.created_at",
}

// CountProducts total de productos que cumplen el filtro.
func (r *CatalogRepo) CountProducts(ctx context.Context, filter repository.ProductFilter) (int, error) {
	q := productWhere(r.builder.Select("COUNT(*)").From("products p"), filter)
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// ListProducts proyección de productos con su marca. limit <= 0 devuelve el
// conjunto candidato completo sin ORDER BY explícito (lo ordena el caller).
// El desempate por id mantiene la paginación estable entre llamadas.
func (r *CatalogRepo) ListProducts(ctx context.Context, filter repository.ProductFilter, sort repository.ListSort, limit, offset int) ([]repository.ProductRow, error) {
	q := productWhere(r.builder.Select(
		"p.id", "p.code", "p.name", "p.brand_id", "b.name AS brand_name",
		"p.price", "p.has_variants", "p.created_at",
	).From("products p").
		LeftJoin("brands b ON b.id = p.brand_id"), filter)

	if limit > 0 {
		col, ok := sortColumns[sort.Field]
		if !ok {
			col = "p.name"
		}
		dir := "ASC"
		if sort.Direction == repository.SortDesc {
			dir = "DESC"
		}
		q = q.OrderBy(col+" "+dir, "p.id ASC").
			Limit(uint64(limit)).Offset(uint64(offset))
	} else {
		q = q.OrderBy("p.id ASC")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	var rows []repository.ProductRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

// variantSortColumns whitelist a nivel variante (name/code refieren al
// producto padre, con la variante como segundo criterio).
var variantSortColumns = map[string]string{
	repository.SortFieldName:      "p.name",
	repository.SortFieldCode:      "p.code",
	repository.SortFieldCreatedAt: "v.created_at",
}

// CountVariants total de variantes de los productos que cumplen el filtro.
func (r *CatalogRepo) CountVariants(ctx context.Context, filter repository.ProductFilter) (int, error) {
	q := productWhere(r.builder.Select("COUNT(*)").
		From("variants v").
		Join("products p ON p.id = v.product_id"), filter)
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count variants: %w", err)
	}
	return total, nil
}

// ListVariants proyección (producto, variante).
func (r *CatalogRepo) ListVariants(ctx context.Context, filter repository.ProductFilter, sort repository.ListSort, limit, offset int) ([]repository.VariantRow, error) {
	q := productWhere(r.builder.Select(
		"v.product_id", "v.id AS variant_id", "p.code AS product_code",
		"p.name AS product_name", "v.name AS variant_name", "v.sku",
		"p.brand_id", "v.created_at",
	).From("variants v").
		Join("products p ON p.id = v.product_id"), filter)

	if limit > 0 {
		col, ok := variantSortColumns[sort.Field]
		if !ok {
			col = "p.name"
		}
		dir := "ASC"
		if sort.Direction == repository.SortDesc {
			dir = "DESC"
		}
		q = q.OrderBy(col+" "+dir, "v.name ASC", "v.id ASC").
			Limit(uint64(limit)).Offset(uint64(offset))
	} else {
		q = q.OrderBy("v.id ASC")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	var rows []repository.VariantRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return rows, nil
}
