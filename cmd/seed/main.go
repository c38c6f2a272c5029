// seed crea un negocio de demostración con catálogo, proveedor y cliente
// para probar la API en local.
//
// Uso: go run ./cmd/seed
// Requiere las mismas variables de entorno de conexión que cmd/api.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comerzia/backoffice-api/internal/domain/entity"
	"github.com/comerzia/backoffice-api/internal/infrastructure/postgres"
	"github.com/comerzia/backoffice-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	now := time.Now()
	business := &entity.Business{
		ID:        uuid.New().String(),
		Name:      "Tienda Demo",
		TaxID:     "900123456-7",
		Address:   "Calle 10 # 20-30",
		Phone:     "3001234567",
		Email:     "demo@tienda.local",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := postgres.NewBusinessRepository(pool).Create(ctx, business); err != nil {
		fmt.Fprintf(os.Stderr, "crear negocio: %v\n", err)
		os.Exit(1)
	}

	brand := &entity.Brand{
		ID:         uuid.New().String(),
		BusinessID: business.ID,
		Name:       "Genérica",
		CreatedAt:  now,
	}
	if err := postgres.NewBrandRepository(pool).Create(ctx, brand); err != nil {
		fmt.Fprintf(os.Stderr, "crear marca: %v\n", err)
		os.Exit(1)
	}

	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)

	shirt := &entity.Product{
		ID:          uuid.New().String(),
		BusinessID:  business.ID,
		BrandID:     &brand.ID,
		Code:        "CAM-001",
		Name:        "Camiseta básica",
		Description: "Camiseta de algodón",
		Price:       decimal.NewFromInt(35000),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := productRepo.Create(ctx, shirt); err != nil {
		fmt.Fprintf(os.Stderr, "crear producto: %v\n", err)
		os.Exit(1)
	}
	for _, size := range []string{"S", "M", "L"} {
		v := &entity.Variant{
			ID:        uuid.New().String(),
			ProductID: shirt.ID,
			Name:      "Talla " + size,
			SKU:       "CAM-001-" + size,
			CreatedAt: now,
		}
		if err := variantRepo.Create(ctx, v); err != nil {
			fmt.Fprintf(os.Stderr, "crear variante: %v\n", err)
			os.Exit(1)
		}
	}

	mug := &entity.Product{
		ID:          uuid.New().String(),
		BusinessID:  business.ID,
		Code:        "TAZ-001",
		Name:        "Taza cerámica",
		Description: "Taza de 350 ml",
		Price:       decimal.NewFromInt(18000),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := productRepo.Create(ctx, mug); err != nil {
		fmt.Fprintf(os.Stderr, "crear producto: %v\n", err)
		os.Exit(1)
	}

	supplier := &entity.Supplier{
		ID:         uuid.New().String(),
		BusinessID: business.ID,
		Name:       "Distribuidora Central",
		Phone:      "6017654321",
		Email:      "ventas@distcentral.local",
		Address:    "Bodega 5, Zona Industrial",
		CreatedAt:  now,
	}
	if err := postgres.NewSupplierRepository(pool).Create(ctx, supplier); err != nil {
		fmt.Fprintf(os.Stderr, "crear proveedor: %v\n", err)
		os.Exit(1)
	}

	customer := &entity.Customer{
		ID:         uuid.New().String(),
		BusinessID: business.ID,
		Name:       "Cliente Mostrador",
		CreatedAt:  now,
	}
	if err := postgres.NewCustomerRepository(pool).Create(ctx, customer); err != nil {
		fmt.Fprintf(os.Stderr, "crear cliente: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("negocio demo creado\n")
	fmt.Printf("  business_id: %s\n", business.ID)
	fmt.Printf("  product_id (camiseta): %s\n", shirt.ID)
	fmt.Printf("  product_id (taza):     %s\n", mug.ID)
	fmt.Printf("  supplier_id: %s\n", supplier.ID)
	fmt.Printf("  customer_id: %s\n", customer.ID)
}
