package trading

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// CancelPurchase anula una compra confirmada. Nunca borra filas: agrega una
// reversal por cada movimiento que la compra originó y marca el documento
// como cancelled. Cancelar dos veces devuelve ErrConflict.
func (o *Orchestrator) CancelPurchase(ctx context.Context, businessID, userID, purchaseID string) error {
	if businessID == "" || purchaseID == "" {
		return domain.ErrValidation
	}
	return o.txRunner.Run(ctx, func(tx repository.TxSet) error {
		purchase, err := tx.Purchases.GetByID(ctx, businessID, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status == entity.ParentStatusCancelled {
			return domain.ErrConflict
		}
		if err := o.reverseParentEntries(ctx, tx, businessID, userID, entity.RefKindPurchase, purchaseID); err != nil {
			return err
		}
		return tx.Purchases.UpdateStatus(ctx, businessID, purchaseID, entity.ParentStatusCancelled)
	})
}

// CancelSale anula una venta confirmada, simétrico a CancelPurchase.
func (o *Orchestrator) CancelSale(ctx context.Context, businessID, userID, saleID string) error {
	if businessID == "" || saleID == "" {
		return domain.ErrValidation
	}
	return o.txRunner.Run(ctx, func(tx repository.TxSet) error {
		sale, err := tx.Sales.GetByID(ctx, businessID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.ParentStatusCancelled {
			return domain.ErrConflict
		}
		if err := o.reverseParentEntries(ctx, tx, businessID, userID, entity.RefKindSale, saleID); err != nil {
			return err
		}
		return tx.Sales.UpdateStatus(ctx, businessID, saleID, entity.ParentStatusCancelled)
	})
}

// reverseParentEntries agrega reversals para todos los movimientos que el
// documento originó y que aún no fueron reversados individualmente,
// actualizando el caché de stock en la misma transacción.
func (o *Orchestrator) reverseParentEntries(ctx context.Context, tx repository.TxSet, businessID, userID, refKind, parentID string) error {
	originals, err := tx.Ledger.Query(ctx, repository.LedgerFilter{
		BusinessID: businessID,
		RefKind:    refKind,
		RefID:      parentID,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	movRef := entity.RefKindMovement
	for _, original := range originals {
		if original.Kind == entity.MovementKindReversal {
			continue
		}
		reversed, err := tx.Ledger.HasReversal(ctx, businessID, original.ID)
		if err != nil {
			return err
		}
		if reversed {
			continue
		}
		refID := original.ID
		reversal := &entity.MovementEntry{
			ID:         uuid.New().String(),
			BusinessID: businessID,
			ProductID:  original.ProductID,
			VariantID:  original.VariantID,
			Delta:      -original.Delta,
			Kind:       entity.MovementKindReversal,
			RefKind:    &movRef,
			RefID:      &refID,
			OccurredAt: now,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if err := tx.Ledger.Append(ctx, []*entity.MovementEntry{reversal}); err != nil {
			return err
		}
		if err := tx.StockCache.ApplyDelta(ctx, businessID, reversal.Key(), reversal.Delta); err != nil {
			return err
		}
	}
	return nil
}
