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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras sobre PostgreSQL (usable con pool o tx). La creación
// de padre + líneas + movimientos como unidad la coordina el orquestador a
// través del TxRunner; aquí solo primitivas.
type PurchaseRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persiste el documento padre.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, business_id, supplier_id, date, subtotal, discount, tax, total, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		purchase.ID, purchase.BusinessID, purchase.SupplierID, purchase.Date,
		purchase.Subtotal, purchase.Discount, purchase.Tax, purchase.Total,
		purchase.Status, purchase.PaymentStatus, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrReferential
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItems inserta el lote de líneas en un solo INSERT multi-fila.
func (r *PurchaseRepo) CreateItems(ctx context.Context, items []entity.PurchaseItem) error {
	if len(items) == 0 {
		return nil
	}
	q := r.builder.Insert("purchase_items").Columns(
		"id", "purchase_id", "product_id", "variant_id", "quantity", "unit_price", "subtotal",
	)
	for _, it := range items {
		q = q.Values(it.ID, it.PurchaseID, it.ProductID, it.VariantID, it.Quantity, it.UnitPrice, it.Subtotal)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferential
		}
		return fmt.Errorf("insert purchase items: %w", err)
	}
	return nil
}

// GetByID compra del negocio con sus líneas, o nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Purchase, error) {
	query := `
		SELECT id, business_id, supplier_id, date, subtotal, discount, tax, total, status, payment_status, created_at, updated_at
		FROM purchases WHERE business_id = $1 AND id = $2`
	var p entity.Purchase
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(
		&p.ID, &p.BusinessID, &p.SupplierID, &p.Date, &p.Subtotal, &p.Discount,
		&p.Tax, &p.Total, &p.Status, &p.PaymentStatus, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	items, err := r.itemsByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

func (r *PurchaseRepo) itemsByParent(ctx context.Context, purchaseID string) ([]entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, variant_id, quantity, unit_price, subtotal
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id ASC`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var items []entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.VariantID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByBusiness listado paginado (más reciente primero) con total. Las
// líneas no se cargan en el listado.
func (r *PurchaseRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Purchase, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE business_id = $1`, businessID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}
	query := `
		SELECT id, business_id, supplier_id, date, subtotal, discount, tax, total, status, payment_status, created_at, updated_at
		FROM purchases WHERE business_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.SupplierID, &p.Date, &p.Subtotal, &p.Discount,
			&p.Tax, &p.Total, &p.Status, &p.PaymentStatus, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// UpdateStatus cambia el estado del documento (cancelación).
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, businessID, id, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchases SET status = $3, updated_at = now() WHERE business_id = $1 AND id = $2`,
		businessID, id, status,
	)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
