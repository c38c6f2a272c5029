package repository

import "context"

// TxSet repositorios atados a una misma transacción de BD.
type TxSet struct {
	Ledger     LedgerRepository
	Purchases  PurchaseRepository
	Sales      SaleRepository
	Products   ProductRepository
	Variants   VariantRepository
	StockCache StockCacheRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando
// repositorios atados a esa tx. Commit si fn devuelve nil, Rollback si no.
// Es el límite de atomicidad del motor de stock: padre + líneas + entradas
// del libro se escriben como una unidad o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxSet) error) error
}
