package repository

import (
	"context"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia de compras. La creación del padre
// con sus líneas y sus movimientos es responsabilidad exclusiva del
// orquestador de transacciones; aquí solo primitivas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateItems(ctx context.Context, items []entity.PurchaseItem) error
	// GetByID devuelve la compra con sus líneas cargadas, o nil si no existe.
	GetByID(ctx context.Context, businessID, id string) (*entity.Purchase, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Purchase, int, error)
	UpdateStatus(ctx context.Context, businessID, id, status string) error
}

// SaleRepository puerto de persistencia de ventas, simétrico a compras.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItems(ctx context.Context, items []entity.SaleItem) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]entity.Sale, int, error)
	UpdateStatus(ctx context.Context, businessID, id, status string) error
}
