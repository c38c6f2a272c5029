package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/comerzia/backoffice-api/internal/application/catalog"
	"github.com/comerzia/backoffice-api/internal/application/ledger"
	"github.com/comerzia/backoffice-api/internal/application/stock"
	"github.com/comerzia/backoffice-api/internal/application/trading"
	"github.com/comerzia/backoffice-api/internal/application/usecase"
	"github.com/comerzia/backoffice-api/internal/infrastructure/postgres"
	httpRouter "github.com/comerzia/backoffice-api/internal/interfaces/http"
	"github.com/comerzia/backoffice-api/pkg/config"
	"github.com/comerzia/backoffice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("strict_stock", cfg.Stock.StrictEnforcement).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledgerRepo := postgres.NewLedgerRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	aggregator := stock.NewAggregator(ledgerRepo)
	ledgerUC := ledger.NewUseCase(txRunner, ledgerRepo, productRepo, variantRepo)
	catalogListUC := catalog.NewListUseCase(catalogRepo, aggregator)
	productUC := usecase.NewProductUseCase(productRepo, variantRepo, brandRepo)
	brandUC := usecase.NewBrandUseCase(brandRepo)
	partyUC := usecase.NewPartyUseCase(supplierRepo, customerRepo)
	orchestrator := trading.NewOrchestrator(
		txRunner, productRepo, variantRepo,
		supplierRepo, customerRepo, purchaseRepo, saleRepo,
		trading.Config{StrictStockEnforcement: cfg.Stock.StrictEnforcement},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Comerzia Backoffice API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogList:  catalogListUC,
		ProductUC:    productUC,
		BrandUC:      brandUC,
		PartyUC:      partyUC,
		LedgerUC:     ledgerUC,
		Aggregator:   aggregator,
		Orchestrator: orchestrator,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
