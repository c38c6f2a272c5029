// Package usecase agrupa los casos de uso CRUD de catálogo y contrapartes.
// Son pasamanos directos a los repositorios: la lógica con contenido real
// vive en los packages stock, catalog, ledger y trading.
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

// ProductUseCase CRUD de productos y variantes.
type ProductUseCase struct {
	products repository.ProductRepository
	variants repository.VariantRepository
	brands   repository.BrandRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, variants repository.VariantRepository, brands repository.BrandRepository) *ProductUseCase {
	return &ProductUseCase{products: products, variants: variants, brands: brands}
}

// Create alta de producto. Valida marca si viene informada.
func (uc *ProductUseCase) Create(ctx context.Context, businessID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if businessID == "" || in.Code == "" || in.Name == "" {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.BrandID != "" {
		brand, err := uc.brands.GetByID(ctx, businessID, in.BrandID)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return nil, domain.ErrReferential
		}
		product.BrandID = &in.BrandID
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID producto por id, con sus variantes cargadas.
func (uc *ProductUseCase) GetByID(ctx context.Context, businessID, id string) (*entity.Product, []entity.Variant, error) {
	product, err := uc.products.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	variants, err := uc.variants.ListByProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return product, variants, nil
}

// Update modifica los datos descriptivos del producto. El stock nunca se
// toca por aquí: solo vía movimientos del libro.
func (uc *ProductUseCase) Update(ctx context.Context, businessID, id string, in dto.CreateProductRequest) (*entity.Product, error) {
	product, err := uc.products.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != "" {
		product.Code = in.Code
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	product.Description = in.Description
	product.Price = in.Price
	if in.BrandID != "" {
		brand, err := uc.brands.GetByID(ctx, businessID, in.BrandID)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return nil, domain.ErrReferential
		}
		product.BrandID = &in.BrandID
	}
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AddVariant alta de variante para un producto existente.
func (uc *ProductUseCase) AddVariant(ctx context.Context, businessID, productID string, in dto.CreateVariantRequest) (*entity.Variant, error) {
	if in.Name == "" {
		return nil, domain.ErrValidation
	}
	product, err := uc.products.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	variant := &entity.Variant{
		ID:        uuid.New().String(),
		ProductID: productID,
		Name:      in.Name,
		SKU:       in.SKU,
		CreatedAt: time.Now(),
	}
	if err := uc.variants.Create(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// BrandUseCase CRUD de marcas.
type BrandUseCase struct {
	brands repository.BrandRepository
}

// NewBrandUseCase construye el caso de uso.
func NewBrandUseCase(brands repository.BrandRepository) *BrandUseCase {
	return &BrandUseCase{brands: brands}
}

// Create alta de marca.
func (uc *BrandUseCase) Create(ctx context.Context, businessID, name string) (*entity.Brand, error) {
	if businessID == "" || name == "" {
		return nil, domain.ErrValidation
	}
	brand := &entity.Brand{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       name,
		CreatedAt:  time.Now(),
	}
	if err := uc.brands.Create(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// List marcas del negocio.
func (uc *BrandUseCase) List(ctx context.Context, businessID string) ([]entity.Brand, error) {
	return uc.brands.ListByBusiness(ctx, businessID)
}
