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

// CreatePurchaseWithItems crea la compra, sus líneas y una entrada
// purchase_receipt (delta = +cantidad) por línea, todo en una transacción.
// Valida y verifica referencias antes de abrirla; si algo falla después,
// nada queda escrito.
func (o *Orchestrator) CreatePurchaseWithItems(ctx context.Context, businessID, userID string, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	if businessID == "" || in.SupplierID == "" {
		return nil, domain.ErrValidation
	}
	preAssigned, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}

	supplier, err := o.suppliers.GetByID(ctx, businessID, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
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
	purchase := &entity.Purchase{
		ID:            parentID,
		BusinessID:    businessID,
		SupplierID:    in.SupplierID,
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

	refKind := entity.RefKindPurchase
	items := make([]entity.PurchaseItem, 0, len(in.Items))
	entries := make([]*entity.MovementEntry, 0, len(in.Items))
	for _, it := range in.Items {
		item := entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: parentID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Subtotal:   it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)),
		}
		entry := &entity.MovementEntry{
			ID:         uuid.New().String(),
			BusinessID: businessID,
			ProductID:  it.ProductID,
			Delta:      it.Quantity,
			Kind:       entity.MovementKindPurchaseReceipt,
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

	err = o.txRunner.Run(ctx, func(tx repository.TxSet) error {
		if err := tx.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		if err := tx.Purchases.CreateItems(ctx, items); err != nil {
			return err
		}
		if err := tx.Ledger.Append(ctx, entries); err != nil {
			return err
		}
		for key, qty := range needPerKey(in.Items) {
			if err := tx.StockCache.ApplyDelta(ctx, businessID, key, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchase.Items = items
	return purchase, nil
}

// GetPurchase compra por id con sus líneas.
func (o *Orchestrator) GetPurchase(ctx context.Context, businessID, id string) (*entity.Purchase, error) {
	purchase, err := o.purchases.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	return purchase, nil
}

// ListPurchases listado paginado de compras del negocio.
func (o *Orchestrator) ListPurchases(ctx context.Context, businessID string, page dto.PageRequest) ([]entity.Purchase, int, error) {
	page.DefaultPage()
	return o.purchases.ListByBusiness(ctx, businessID, page.PageSize, page.Offset())
}
