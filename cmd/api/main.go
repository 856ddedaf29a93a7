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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/application/auth"
	"github.com/jhoicas/mes-api/internal/application/catalog"
	"github.com/jhoicas/mes-api/internal/application/routing"
	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mes-api/internal/interfaces/http"
	"github.com/jhoicas/mes-api/pkg/config"
	"github.com/jhoicas/mes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	processRepo := postgres.NewProcessRepository(pool)
	routingRepo := postgres.NewRoutingRepository(pool)
	lotRepo := postgres.NewStockLotRepository(pool)
	consumptionRepo := postgres.NewLotConsumptionRepository(pool)
	carryOverRepo := postgres.NewCarryOverRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	catalogUC := catalog.NewProcessCatalogUseCase(processRepo, routingRepo)
	routingUC := routing.NewRoutingUseCase(txRunner, routingRepo, processRepo)
	navigator := routing.NewNavigator(routingRepo)
	validator := routing.NewValidator(routingRepo, processRepo)
	ledgerUC := stock.NewStockLedgerUseCase(txRunner, lotRepo, consumptionRepo)
	carryOverUC := stock.NewCarryOverUseCase(txRunner, carryOverRepo)
	deductionUC := stock.NewBOMDeductionUseCase(txRunner, processRepo, lotRepo, bomRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "MES API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:        catalogUC,
		RoutingUC:        routingUC,
		RoutingNavigator: navigator,
		RoutingValidator: validator,
		StockLedgerUC:    ledgerUC,
		CarryOverUC:      carryOverUC,
		DeductionUC:      deductionUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
		LowStockFloor:    decimal.NewFromFloat(cfg.Stock.LowStockThreshold),
		AllowNegative:    cfg.Stock.AllowNegative,
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
