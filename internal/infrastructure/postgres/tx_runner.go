package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es el
// único camino por el que el orquestador escribe padre + líneas + entradas
// del libro: commit-or-abort, sin estados intermedios. La cancelación del
// ctx aborta vía Rollback; no hay limpieza manual.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.TxSet) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	set := repository.TxSet{
		Ledger:     NewLedgerRepository(tx),
		Purchases:  NewPurchaseRepository(tx),
		Sales:      NewSaleRepository(tx),
		Products:   NewProductRepository(tx),
		Variants:   NewVariantRepository(tx),
		StockCache: NewStockCacheRepository(tx),
	}

	if err := fn(set); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
