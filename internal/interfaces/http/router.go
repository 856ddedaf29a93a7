package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mes-api/internal/application/auth"
	"github.com/jhoicas/mes-api/internal/application/catalog"
	"github.com/jhoicas/mes-api/internal/application/routing"
	"github.com/jhoicas/mes-api/internal/application/stock"
	"github.com/jhoicas/mes-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC        *catalog.ProcessCatalogUseCase
	RoutingUC        *routing.RoutingUseCase
	RoutingNavigator *routing.Navigator
	RoutingValidator *routing.Validator
	StockLedgerUC    *stock.StockLedgerUseCase
	CarryOverUC      *stock.CarryOverUseCase
	DeductionUC      *stock.BOMDeductionUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
	LowStockFloor    decimal.Decimal
	// AllowNegative valor efectivo de allow_negative cuando la petición lo omite.
	AllowNegative bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de procesos (lectura abierta a cualquier rol; escritura solo admin)
	processHandler := NewProcessHandler(deps.CatalogUC)
	processes := protected.Group("/processes")
	processes.Get("/", processHandler.List)
	processes.Get("/short/:short", processHandler.GetByShortCode)
	processes.Get("/:code", processHandler.GetByCode)
	processes.Post("/", RequireRole(entity.RoleAdmin), processHandler.Create)
	processes.Put("/:code", RequireRole(entity.RoleAdmin), processHandler.Update)
	processes.Patch("/:code/deactivate", RequireRole(entity.RoleAdmin), processHandler.Deactivate)
	processes.Delete("/:code", RequireRole(entity.RoleAdmin), processHandler.Delete)

	// Ruteo por producto
	routingHandler := NewRoutingHandler(deps.RoutingUC, deps.RoutingNavigator, deps.RoutingValidator)
	products := protected.Group("/products")
	products.Put("/:productId/routing", routingHandler.SetRouting)
	products.Post("/:productId/routing/from-pattern", routingHandler.SetFromPattern)
	products.Get("/:productId/routing", routingHandler.GetRouting)
	products.Delete("/:productId/routing", routingHandler.ClearRouting)
	products.Get("/:productId/routing/count", routingHandler.CountRouting)
	products.Get("/:productId/routing/first", routingHandler.FirstProcess)
	products.Get("/:productId/routing/last", routingHandler.LastProcess)
	products.Get("/:productId/routing/next", routingHandler.NextProcess)
	products.Get("/:productId/routing/previous", routingHandler.PreviousProcess)
	products.Post("/:productId/routing/validate", routingHandler.ValidateRouting)
	products.Post("/:productId/routing/validate-order", routingHandler.ValidateOrder)

	routingGroup := protected.Group("/routing")
	routingGroup.Post("/copy", routingHandler.CopyRouting)
	routingGroup.Post("/entries", routingHandler.CreateEntry)
	routingGroup.Patch("/entries/:id", routingHandler.UpdateEntry)
	routingGroup.Delete("/entries/:id", routingHandler.DeleteEntry)
	routingGroup.Get("/patterns", routingHandler.ListPatterns)
	routingGroup.Post("/patterns/identify", routingHandler.IdentifyPattern)
	routingGroup.Post("/validate-codes", routingHandler.ValidateCodes)

	// Ledger de stock y arrastres
	stockHandler := NewStockHandler(deps.StockLedgerUC, deps.CarryOverUC, deps.LowStockFloor, deps.AllowNegative)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/lots", stockHandler.ReceiveLot)
	stockGroup.Get("/lots", stockHandler.ListLots)
	stockGroup.Delete("/lots/:id", RequireRole(entity.RoleAdmin), stockHandler.DeleteLot)
	stockGroup.Get("/materials/:materialId/available", stockHandler.Available)
	stockGroup.Post("/consume", stockHandler.Consume)
	stockGroup.Get("/summary/materials", stockHandler.SummaryByMaterial)
	stockGroup.Get("/summary/locations", stockHandler.SummaryByLocation)
	stockGroup.Get("/low", stockHandler.LowStock)

	carryOvers := protected.Group("/carryovers")
	carryOvers.Post("/", stockHandler.RegisterCarryOver)
	carryOvers.Post("/consume", stockHandler.ConsumeCarryOver)
	carryOvers.Get("/available", stockHandler.CarryOverAvailable)

	// Deducción por BOM
	deductionHandler := NewDeductionHandler(deps.DeductionUC, deps.AllowNegative)
	deductions := protected.Group("/deductions")
	deductions.Post("/", deductionHandler.Deduct)
	deductions.Post("/check", deductionHandler.CheckAvailability)
	deductions.Delete("/:productionLotId", deductionHandler.Rollback)
}
