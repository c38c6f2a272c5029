package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerTable = "stock_movements"

const ledgerColumns = "id, business_id, product_id, variant_id, delta, kind, ref_kind, ref_id, occurred_at, created_at, created_by"

// LedgerRepo adaptador PostgreSQL del libro de movimientos (usable con pool
// o tx). La tabla es append-only: este repositorio no tiene UPDATE ni DELETE.
type LedgerRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserta el lote en un solo INSERT multi-fila: o entran todas las
// entradas o ninguna. Violaciones de FK se traducen a ErrReferential; la
// violación del índice único parcial de reversals, a ErrConflict (carrera de
// doble reversal).
func (r *LedgerRepo) Append(ctx context.Context, entries []*entity.MovementEntry) error {
	if len(entries) == 0 {
		return nil
	}

	q := r.builder.Insert(ledgerTable).Columns(
		"id", "business_id", "product_id", "variant_id", "delta", "kind",
		"ref_kind", "ref_id", "occurred_at", "created_at", "created_by",
	)
	for _, e := range entries {
		q = q.Values(
			e.ID, e.BusinessID, e.ProductID, e.VariantID, e.Delta, e.Kind,
			e.RefKind, e.RefID, e.OccurredAt, e.CreatedAt, e.CreatedBy,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferential
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("append movements: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada del negocio por id.
func (r *LedgerRepo) GetByID(ctx context.Context, businessID, id string) (*entity.MovementEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_movements WHERE business_id = $1 AND id = $2`
	var e entity.MovementEntry
	err := r.q.QueryRow(ctx, query, businessID, id).Scan(
		&e.ID, &e.BusinessID, &e.ProductID, &e.VariantID, &e.Delta, &e.Kind,
		&e.RefKind, &e.RefID, &e.OccurredAt, &e.CreatedAt, &e.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &e, nil
}

// whereFilter arma las condiciones comunes de un LedgerFilter.
func (r *LedgerRepo) whereFilter(q squirrel.SelectBuilder, f repository.LedgerFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"business_id": f.BusinessID})
	if f.ProductID != "" {
		q = q.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.VariantID != nil {
		if *f.VariantID == "" {
			q = q.Where("variant_id IS NULL")
		} else {
			q = q.Where(squirrel.Eq{"variant_id": *f.VariantID})
		}
	}
	if f.RefKind != "" {
		q = q.Where(squirrel.Eq{"ref_kind": f.RefKind})
	}
	if f.RefID != "" {
		q = q.Where(squirrel.Eq{"ref_id": f.RefID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *f.From})
	}
	if f.AsOf != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *f.AsOf})
	}
	return q
}

// Query devuelve entradas en orden de replay determinista: occurred_at ASC
// con desempate por created_at y por id.
func (r *LedgerRepo) Query(ctx context.Context, filter repository.LedgerFilter) ([]entity.MovementEntry, error) {
	q := r.whereFilter(r.builder.Select(
		"id", "business_id", "product_id", "variant_id", "delta", "kind",
		"ref_kind", "ref_id", "occurred_at", "created_at", "created_by",
	).From(ledgerTable), filter).
		OrderBy("occurred_at ASC", "created_at ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var entries []entity.MovementEntry
	if err := pgxscan.Select(ctx, r.q, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return entries, nil
}

// History listado paginado (más reciente primero) con total.
func (r *LedgerRepo) History(ctx context.Context, filter repository.LedgerFilter, limit, offset int) ([]entity.MovementEntry, int, error) {
	countQ := r.whereFilter(r.builder.Select("COUNT(*)").From(ledgerTable), filter)
	sql, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	q := r.whereFilter(r.builder.Select(
		"id", "business_id", "product_id", "variant_id", "delta", "kind",
		"ref_kind", "ref_id", "occurred_at", "created_at", "created_by",
	).From(ledgerTable), filter).
		OrderBy("occurred_at DESC", "created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(uint64(offset))

	sql, args, err = q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build history: %w", err)
	}
	var entries []entity.MovementEntry
	if err := pgxscan.Select(ctx, r.q, &entries, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select history: %w", err)
	}
	return entries, total, nil
}

// SumByKey pliega el rango completo en una sola consulta agrupada por
// (product_id, variant_id). Este es el contrato de rendimiento de bulkStock:
// una consulta sin importar cuántas claves pida la vista.
func (r *LedgerRepo) SumByKey(ctx context.Context, businessID string, productIDs []string, asOf *time.Time) ([]repository.StockTotal, error) {
	q := r.builder.Select(
		"product_id",
		"variant_id",
		"SUM(delta)::bigint AS quantity",
		"MAX(occurred_at) AS last_movement_at",
	).From(ledgerTable).
		Where(squirrel.Eq{"business_id": businessID})
	if len(productIDs) > 0 {
		q = q.Where(squirrel.Eq{"product_id": productIDs})
	}
	if asOf != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *asOf})
	}
	q = q.GroupBy("product_id", "variant_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fold: %w", err)
	}
	var totals []repository.StockTotal
	if err := pgxscan.Select(ctx, r.q, &totals, sql, args...); err != nil {
		return nil, fmt.Errorf("grouped fold: %w", err)
	}
	return totals, nil
}

// SumForProduct suma todos los deltas del producto (base + variantes).
func (r *LedgerRepo) SumForProduct(ctx context.Context, businessID, productID string, asOf *time.Time) (int64, *time.Time, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)::bigint, MAX(occurred_at)
		FROM stock_movements
		WHERE business_id = $1 AND product_id = $2 AND occurred_at <= COALESCE($3, now())`
	var qty int64
	var last *time.Time
	if err := r.q.QueryRow(ctx, query, businessID, productID, asOf).Scan(&qty, &last); err != nil {
		return 0, nil, fmt.Errorf("fold product: %w", err)
	}
	return qty, last, nil
}

// SumForVariant suma los deltas de una variante exacta.
func (r *LedgerRepo) SumForVariant(ctx context.Context, businessID, productID, variantID string, asOf *time.Time) (int64, *time.Time, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)::bigint, MAX(occurred_at)
		FROM stock_movements
		WHERE business_id = $1 AND product_id = $2 AND variant_id = $3 AND occurred_at <= COALESCE($4, now())`
	var qty int64
	var last *time.Time
	if err := r.q.QueryRow(ctx, query, businessID, productID, variantID, asOf).Scan(&qty, &last); err != nil {
		return 0, nil, fmt.Errorf("fold variant: %w", err)
	}
	return qty, last, nil
}

// HasReversal indica si ya existe una reversal apuntando a la entrada.
func (r *LedgerRepo) HasReversal(ctx context.Context, businessID, entryID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE business_id = $1 AND kind = $2 AND ref_kind = $3 AND ref_id = $4
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query, businessID, entity.MovementKindReversal, entity.RefKindMovement, entryID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reversal: %w", err)
	}
	return exists, nil
}
