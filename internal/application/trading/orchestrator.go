// Package trading es el orquestador de transacciones de compra/venta: dueño
// exclusivo de la ruta de escritura que crea documento padre + líneas +
// entradas del libro como una sola unidad atómica.
package trading

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// Config políticas del orquestador. StrictStockEnforcement rechaza ventas
// que dejarían stock negativo; apagado permite backorder (el negativo
// transitorio es legítimo).
type Config struct {
	StrictStockEnforcement bool
}

// Orchestrator crea compras y ventas con sus líneas y movimientos de stock.
// Toda validación y chequeo referencial ocurre antes de abrir la
// transacción; cualquier falla posterior descarta el lote completo.
type Orchestrator struct {
	txRunner  repository.TxRunner
	products  repository.ProductRepository
	variants  repository.VariantRepository
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
	cfg       Config
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	txRunner repository.TxRunner,
	products repository.ProductRepository,
	variants repository.VariantRepository,
	suppliers repository.SupplierRepository,
	customers repository.CustomerRepository,
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		txRunner:  txRunner,
		products:  products,
		variants:  variants,
		suppliers: suppliers,
		customers: customers,
		purchases: purchases,
		sales:     sales,
		cfg:       cfg,
	}
}

// validateItems valida el lote de líneas: no vacío, cantidades positivas,
// precios no negativos, producto presente, y un único parent id si alguna
// línea lo trae pre-asignado (los lotes cruzados se rechazan). Devuelve el
// parent id pre-asignado, o vacío si ninguna línea lo trae.
func validateItems(items []dto.LineItemRequest) (string, error) {
	if len(items) == 0 {
		return "", domain.ErrValidation
	}
	parentID := ""
	for _, it := range items {
		if it.ProductID == "" {
			return "", domain.ErrValidation
		}
		if it.Quantity <= 0 {
			return "", domain.ErrValidation
		}
		if it.UnitPrice.LessThan(decimal.Zero) {
			return "", domain.ErrValidation
		}
		if it.ParentID != "" {
			if parentID != "" && parentID != it.ParentID {
				return "", domain.ErrValidation
			}
			parentID = it.ParentID
		}
	}
	return parentID, nil
}

// checkItemRefs verifica en bloque que productos y variantes existan y las
// variantes pertenezcan a su producto declarado. ErrReferential ante
// cualquier referencia colgante; nada se escribe.
func (o *Orchestrator) checkItemRefs(ctx context.Context, businessID string, items []dto.LineItemRequest) error {
	productIDs := make([]string, 0, len(items))
	seen := map[string]bool{}
	variantPairs := map[string]string{}
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			productIDs = append(productIDs, it.ProductID)
		}
		if it.VariantID != "" {
			variantPairs[it.VariantID] = it.ProductID
		}
	}

	missing, err := o.products.MissingIDs(ctx, businessID, productIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return domain.ErrReferential
	}
	if len(variantPairs) > 0 {
		missingVariants, err := o.variants.MissingIDs(ctx, variantPairs)
		if err != nil {
			return err
		}
		if len(missingVariants) > 0 {
			return domain.ErrReferential
		}
	}
	return nil
}

// itemTotals subtotal del lote: Σ cantidad × precio unitario.
func itemTotals(items []dto.LineItemRequest) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return subtotal
}

// needPerKey agrupa la cantidad requerida por clave (producto, variante).
func needPerKey(items []dto.LineItemRequest) map[entity.StockKey]int64 {
	need := map[entity.StockKey]int64{}
	for _, it := range items {
		key := entity.StockKey{ProductID: it.ProductID, VariantID: it.VariantID}
		need[key] += it.Quantity
	}
	return need
}
