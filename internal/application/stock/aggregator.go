// Package stock deriva cantidades de stock plegando el libro de movimientos.
// Nunca lee un contador mutable: la fuente de verdad es siempre el libro.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// Aggregator calcula stock actual o histórico por producto/variante.
// Las lecturas van fuera de transacción (read-committed es suficiente);
// un snapshot levemente desactualizado frente a escrituras concurrentes es
// aceptable.
type Aggregator struct {
	ledger repository.LedgerRepository
}

// NewAggregator construye el agregador.
func NewAggregator(ledger repository.LedgerRepository) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// FoldEntries suma los deltas de un conjunto de entradas. Una reversal ya
// lleva el delta negado de su original, así que la suma simple cancela
// exactamente el par original+reversal: no hay doble aplicación.
func FoldEntries(entries []entity.MovementEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Delta
	}
	return total
}

// CurrentStock stock a "ahora". variantID vacío = agregado del producto
// (base + todas sus variantes); no vacío = esa variante exacta.
func (a *Aggregator) CurrentStock(ctx context.Context, businessID, productID, variantID string) (*entity.StockSnapshot, error) {
	return a.StockAsOf(ctx, businessID, productID, variantID, nil)
}

// StockAsOf stock histórico a un instante dado (nil = ahora). Los errores de
// agregación se propagan: devolver cero ante una falla enmascararía el stock
// real.
func (a *Aggregator) StockAsOf(ctx context.Context, businessID, productID, variantID string, asOf *time.Time) (*entity.StockSnapshot, error) {
	if businessID == "" || productID == "" {
		return nil, domain.ErrValidation
	}
	var (
		qty  int64
		last *time.Time
		err  error
	)
	if variantID == "" {
		qty, last, err = a.ledger.SumForProduct(ctx, businessID, productID, asOf)
	} else {
		qty, last, err = a.ledger.SumForVariant(ctx, businessID, productID, variantID, asOf)
	}
	if err != nil {
		return nil, fmt.Errorf("fold stock: %w", err)
	}
	snap := &entity.StockSnapshot{
		ProductID:      productID,
		Quantity:       qty,
		LastMovementAt: last,
	}
	if variantID != "" {
		snap.VariantID = &variantID
	}
	return snap, nil
}

// BulkStock pliega el libro UNA sola vez (consulta agrupada) y reparte el
// resultado entre las claves pedidas. O(entradas-en-rango) sin importar
// cuántas claves se pidan: las vistas de lista nunca disparan N scans.
// Claves sin movimientos quedan en cero.
//
// productLevel true agrega por producto (suma base + variantes); false
// devuelve claves (producto, variante) exactas.
func (a *Aggregator) BulkStock(ctx context.Context, businessID string, productIDs []string, asOf *time.Time, productLevel bool) (map[entity.StockKey]int64, error) {
	if businessID == "" {
		return nil, domain.ErrValidation
	}
	totals, err := a.ledger.SumByKey(ctx, businessID, productIDs, asOf)
	if err != nil {
		return nil, fmt.Errorf("bulk fold: %w", err)
	}
	out := make(map[entity.StockKey]int64, len(totals))
	for _, t := range totals {
		key := entity.StockKey{ProductID: t.ProductID}
		if !productLevel && t.VariantID != nil {
			key.VariantID = *t.VariantID
		}
		out[key] += t.Quantity
	}
	return out, nil
}
