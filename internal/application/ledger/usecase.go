// Package ledger expone las operaciones de escritura directa sobre el libro
// de movimientos: ajustes manuales y reversals. Las entradas originadas por
// compras/ventas las emite exclusivamente el orquestador (package trading).
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// UseCase operaciones del libro de movimientos.
type UseCase struct {
	txRunner repository.TxRunner
	ledger   repository.LedgerRepository
	products repository.ProductRepository
	variants repository.VariantRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner repository.TxRunner,
	ledger repository.LedgerRepository,
	products repository.ProductRepository,
	variants repository.VariantRepository,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		ledger:   ledger,
		products: products,
		variants: variants,
	}
}

// ValidateEntries valida semánticamente un lote antes de cualquier escritura:
// delta distinto de cero, producto presente, tipo dentro del conjunto
// cerrado. Devuelve ErrValidation ante la primera violación.
func ValidateEntries(entries []*entity.MovementEntry) error {
	if len(entries) == 0 {
		return domain.ErrValidation
	}
	for _, e := range entries {
		if e.BusinessID == "" || e.ProductID == "" {
			return domain.ErrValidation
		}
		if e.Delta == 0 {
			return domain.ErrValidation
		}
		if !entity.ValidMovementKind(e.Kind) {
			return domain.ErrValidation
		}
	}
	return nil
}

// RegisterAdjustment agrega un ajuste manual (delta con signo, sin documento
// de referencia) y actualiza el caché de stock en la misma transacción.
func (uc *UseCase) RegisterAdjustment(ctx context.Context, businessID, userID string, in dto.RegisterAdjustmentRequest) (*entity.MovementEntry, error) {
	if businessID == "" || in.ProductID == "" || in.Delta == 0 {
		return nil, domain.ErrValidation
	}

	// Chequeo referencial antes de escribir
	product, err := uc.products.GetByID(ctx, businessID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrReferential
	}
	if in.VariantID != "" {
		variant, err := uc.variants.GetByID(ctx, in.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || variant.ProductID != in.ProductID {
			return nil, domain.ErrReferential
		}
	}

	now := time.Now()
	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	entry := &entity.MovementEntry{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		ProductID:  in.ProductID,
		Delta:      in.Delta,
		Kind:       entity.MovementKindAdjustment,
		OccurredAt: occurredAt,
		CreatedAt:  now,
		CreatedBy:  userID,
	}
	if in.VariantID != "" {
		entry.VariantID = &in.VariantID
	}
	if err := ValidateEntries([]*entity.MovementEntry{entry}); err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(tx repository.TxSet) error {
		if err := tx.Ledger.Append(ctx, []*entity.MovementEntry{entry}); err != nil {
			return err
		}
		return tx.StockCache.ApplyDelta(ctx, businessID, entry.Key(), entry.Delta)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ReverseEntry agrega una reversal con el delta negado y referencia al
// movimiento original. Una entrada se reversa a lo sumo una vez: el segundo
// intento devuelve ErrConflict. Una reversal no es reversable.
func (uc *UseCase) ReverseEntry(ctx context.Context, businessID, userID, entryID string) (*entity.MovementEntry, error) {
	if businessID == "" || entryID == "" {
		return nil, domain.ErrValidation
	}

	var reversal *entity.MovementEntry
	err := uc.txRunner.Run(ctx, func(tx repository.TxSet) error {
		original, err := tx.Ledger.GetByID(ctx, businessID, entryID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if original.Kind == entity.MovementKindReversal {
			return domain.ErrValidation
		}
		reversed, err := tx.Ledger.HasReversal(ctx, businessID, entryID)
		if err != nil {
			return err
		}
		if reversed {
			return domain.ErrConflict
		}

		now := time.Now()
		refKind := entity.RefKindMovement
		refID := original.ID
		reversal = &entity.MovementEntry{
			ID:         uuid.New().String(),
			BusinessID: businessID,
			ProductID:  original.ProductID,
			VariantID:  original.VariantID,
			Delta:      -original.Delta,
			Kind:       entity.MovementKindReversal,
			RefKind:    &refKind,
			RefID:      &refID,
			OccurredAt: now,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if err := tx.Ledger.Append(ctx, []*entity.MovementEntry{reversal}); err != nil {
			return err
		}
		return tx.StockCache.ApplyDelta(ctx, businessID, reversal.Key(), reversal.Delta)
	})
	if err != nil {
		return nil, err
	}
	return reversal, nil
}

// History listado paginado de movimientos para la vista de historial.
func (uc *UseCase) History(ctx context.Context, businessID string, in dto.ListMovementsRequest) ([]entity.MovementEntry, int, error) {
	if businessID == "" {
		return nil, 0, domain.ErrValidation
	}
	in.DefaultPage()

	filter := repository.LedgerFilter{
		BusinessID: businessID,
		ProductID:  in.ProductID,
	}
	if in.VariantID != "" {
		v := in.VariantID
		filter.VariantID = &v
	}
	if in.From != "" {
		from, err := time.Parse(time.RFC3339, in.From)
		if err != nil {
			return nil, 0, domain.ErrValidation
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(time.RFC3339, in.To)
		if err != nil {
			return nil, 0, domain.ErrValidation
		}
		filter.AsOf = &to
	}

	entries, total, err := uc.ledger.History(ctx, filter, in.PageSize, in.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("history: %w", err)
	}
	return entries, total, nil
}

// RebuildStockCache reconstruye el caché materializado del negocio desde el
// libro. El caché nunca es autoritativo: esta es su regla de invalidación.
func (uc *UseCase) RebuildStockCache(ctx context.Context, businessID string) error {
	if businessID == "" {
		return domain.ErrValidation
	}
	return uc.txRunner.Run(ctx, func(tx repository.TxSet) error {
		return tx.StockCache.Rebuild(ctx, businessID)
	})
}
