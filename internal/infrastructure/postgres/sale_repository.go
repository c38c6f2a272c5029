package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL (usable con pool o tx), simétrico a
// PurchaseRepo.
type SaleRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persiste el documento padre.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, business_id, customer_id, date, subtotal, discount, tax, total, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.BusinessID, sale.CustomerID, sale.Date,
		sale.Subtotal, sale.Discount, sale.Tax, sale.Total,
		sale.Status, sale.PaymentStatus, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrReferential
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItems inserta el lote de líneas en un solo INSERT multi-fila.
func (r *SaleRepo) CreateItems(ctx context.Context, items []entity.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	q := r.builder.Insert("sale_items").Columns(
		"id", "sale_id", "product_id", "variant_id", "quantity", "unit_price", "subtotal",
	)
	for _, it := range items {
		q = q.Values(it.ID, it.SaleID, it.ProductID, it.VariantID, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferential
		}
		return fmt.Errorf("insert sale items: %w", err)
	}
	return nil
}

// GetByID venta del negocio con sus líneas, o nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	query := `
		SELECT id, business_id, customer_id, date, subtotal, discount, tax, total, status, payment_status, created_at, updated_at
		FROM sales WHERE business_id = $1 AND id = $2`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(
		&s.ID, &s.BusinessID, &s.CustomerID, &s.Date, &s.Subtotal, &s.Discount,
		&s.Tax, &s.Total, &s.Status, &s.PaymentStatus, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.itemsByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) itemsByParent(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, variant_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByBusiness listado paginado (más reciente primero) con total.
func (r *SaleRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Sale, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE business_id = $1`, businessID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	query := `
		SELECT id, business_id, customer_id, date, subtotal, discount, tax, total, status, payment_status, created_at, updated_at
		FROM sales WHERE business_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.CustomerID, &s.Date, &s.Subtotal, &s.Discount,
			&s.Tax, &s.Total, &s.Status, &s.PaymentStatus, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// UpdateStatus cambia el estado del documento (cancelación).
func (r *SaleRepo) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $3, updated_at = now() WHERE business_id = $1 AND id = $2`,
		businessID, id, status,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
