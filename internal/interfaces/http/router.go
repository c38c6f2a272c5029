package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/comerzia/backoffice-api/internal/application/catalog"
	"github.com/comerzia/backoffice-api/internal/application/ledger"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/application/trading"
	"github.com/comerzia/backoffice-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogList  *catalog.ListUseCase
	ProductUC    *usecase.ProductUseCase
	BrandUC      *usecase.BrandUseCase
	PartyUC      *usecase.PartyUseCase
	LedgerUC     *ledger.UseCase
	Aggregator   *stock.Aggregator
	Orchestrator *trading.Orchestrator
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo con stock derivado
	catalogHandler := NewCatalogHandler(deps.CatalogList, deps.ProductUC, deps.BrandUC)
	protected.Get("/catalog", catalogHandler.List)

	products := protected.Group("/products")
	products.Post("/", catalogHandler.CreateProduct)
	products.Get("/:id", catalogHandler.GetProduct)
	products.Put("/:id", catalogHandler.UpdateProduct)
	products.Post("/:id/variants", catalogHandler.AddVariant)

	brands := protected.Group("/brands")
	brands.Post("/", catalogHandler.CreateBrand)
	brands.Get("/", catalogHandler.ListBrands)

	// Inventario: libro de movimientos y stock
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.Aggregator)
	inv := protected.Group("/inventory")
	inv.Post("/adjustments", inventoryHandler.RegisterAdjustment)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Post("/movements/:id/reverse", inventoryHandler.ReverseMovement)
	inv.Get("/stock", inventoryHandler.GetStock)
	inv.Post("/stock/rebuild", inventoryHandler.RebuildStockCache)

	// Compras y ventas
	tradingHandler := NewTradingHandler(deps.Orchestrator)
	purchases := protected.Group("/purchases")
	purchases.Post("/", tradingHandler.CreatePurchase)
	purchases.Get("/", tradingHandler.ListPurchases)
	purchases.Get("/:id", tradingHandler.GetPurchase)
	purchases.Post("/:id/cancel", tradingHandler.CancelPurchase)

	sales := protected.Group("/sales")
	sales.Post("/", tradingHandler.CreateSale)
	sales.Get("/", tradingHandler.ListSales)
	sales.Get("/:id", tradingHandler.GetSale)
	sales.Post("/:id/cancel", tradingHandler.CancelSale)

	// Proveedores y clientes
	partyHandler := NewPartyHandler(deps.PartyUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", partyHandler.CreateSupplier)
	suppliers.Get("/", partyHandler.ListSuppliers)

	customers := protected.Group("/customers")
	customers.Post("/", partyHandler.CreateCustomer)
	customers.Get("/", partyHandler.ListCustomers)
}
