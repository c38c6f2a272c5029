package trading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// CreateSaleWithItems es el simétrico de compras: una entrada sale_issue
// (delta = −cantidad) por línea. Con StrictStockEnforcement activo, bloquea
// la fila del caché de stock (SELECT FOR UPDATE) y rechaza la venta si el
// resultado quedaría negativo; apagado, el negativo transitorio se admite
// (backorder).
func (o *Orchestrator) CreateSaleWithItems(ctx context.Context, businessID, userID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	if businessID == "" || in.CustomerID == "" {
		return nil, domain.ErrValidation
	}
	preAssigned, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}

	customer, err := o.customers.GetByID(ctx, businessID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrReferential
	}
	if err := o.checkItemRefs(ctx, businessID, in.Items); err != nil {
		return nil, err
	}

	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	parentID := preAssigned
	if parentID == "" {
		parentID = uuid.New().String()
	}

	subtotal := itemTotals(in.Items)
	paymentStatus := in.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = entity.PaymentStatusPending
	}
	sale := &entity.Sale{
		ID:            parentID,
		BusinessID:    businessID,
		CustomerID:    in.CustomerID,
		Date:          date,
		Subtotal:      subtotal,
		Discount:      in.Discount,
		Tax:           in.Tax,
		Total:         subtotal.Sub(in.Discount).Add(in.Tax),
		Status:        entity.ParentStatusCommitted,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	refKind := entity.RefKindSale
	items := make([]entity.SaleItem, 0, len(in.Items))
	entries := make([]*entity.MovementEntry, 0, len(in.Items))
	for _, it := range in.Items {
		item := entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    parentID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)),
		}
		entry := &entity.MovementEntry{
			ID:         uuid.New().String(),
			BusinessID: businessID,
			ProductID:  it.ProductID,
			Delta:      -it.Quantity,
			Kind:       entity.MovementKindSaleIssue,
			RefKind:    &refKind,
			RefID:      &parentID,
			OccurredAt: date,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if it.VariantID != "" {
			v := it.VariantID
			item.VariantID = &v
			entry.VariantID = &v
		}
		items = append(items, item)
		entries = append(entries, entry)
	}

	need := needPerKey(in.Items)
	err = o.txRunner.Run(ctx, func(tx repository.TxSet) error {
		if o.cfg.StrictStockEnforcement {
			// El lock de fila serializa ventas concurrentes sobre la misma
			// clave dentro de la transacción de escritura.
			for key, qty := range need {
				row, err := tx.StockCache.GetForUpdate(ctx, businessID, key)
				if err != nil {
					return err
				}
				var available int64
				if row != nil {
					available = row.Quantity
				}
				if available-qty < 0 {
					return domain.ErrInsufficientStock
				}
			}
		}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if err := tx.Sales.CreateItems(ctx, items); err != nil {
			return err
		}
		if err := tx.Ledger.Append(ctx, entries); err != nil {
			return err
		}
		for key, qty := range need {
			if err := tx.StockCache.ApplyDelta(ctx, businessID, key, -qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sale.Items = items
	return sale, nil
}

// GetSale venta por id con sus líneas.
func (o *Orchestrator) GetSale(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	sale, err := o.sales.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales listado paginado de ventas del negocio.
func (o *Orchestrator) ListSales(ctx context.Context, businessID string, page dto.PageRequest) ([]entity.Sale, int, error) {
	page.DefaultPage()
	return o.sales.ListByBusiness(ctx, businessID, page.PageSize, page.Offset())
}
