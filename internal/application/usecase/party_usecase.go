package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/comerzia/backoffice-api/internal/application/dto"
	"github.com/comerzia/backoffice-api/internal/domain"
	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/domain/repository"
)

// PartyUseCase CRUD de proveedores y clientes (contrapartes de compras y
// ventas).
type PartyUseCase struct {
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
}

// NewPartyUseCase construye el caso de uso.
func NewPartyUseCase(suppliers repository.SupplierRepository, customers repository.CustomerRepository) *PartyUseCase {
	return &PartyUseCase{suppliers: suppliers, customers: customers}
}

// CreateSupplier alta de proveedor.
func (uc *PartyUseCase) CreateSupplier(ctx context.Context, businessID, name, phone, email, address string) (*entity.Supplier, error) {
	if businessID == "" || name == "" {
		return nil, domain.ErrValidation
	}
	supplier := &entity.Supplier{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
		Address:    address,
		CreatedAt:  time.Now(),
	}
	if err := uc.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// ListSuppliers listado paginado de proveedores.
func (uc *PartyUseCase) ListSuppliers(ctx context.Context, businessID string, page dto.PageRequest) ([]entity.Supplier, int, error) {
	page.DefaultPage()
	return uc.suppliers.ListByBusiness(ctx, businessID, page.PageSize, page.Offset())
}

// CreateCustomer alta de cliente.
func (uc *PartyUseCase) CreateCustomer(ctx context.Context, businessID, name, phone, email, address string) (*entity.Customer, error) {
	if businessID == "" || name == "" {
		return nil, domain.ErrValidation
	}
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
		Address:    address,
		CreatedAt:  time.Now(),
	}
	if err := uc.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListCustomers listado paginado de clientes.
func (uc *PartyUseCase) ListCustomers(ctx context.Context, businessID string, page dto.PageRequest) ([]entity.Customer, int, error) {
	page.DefaultPage()
	return uc.customers.ListByBusiness(ctx, businessID, page.PageSize, page.Offset())
}
