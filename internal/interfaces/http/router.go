package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/solar-inventario/internal/application/auth"
	"github.com/tu-usuario/solar-inventario/internal/application/dispatch"
	"github.com/tu-usuario/solar-inventario/internal/application/inventory"
	"github.com/tu-usuario/solar-inventario/internal/application/stats"
	"github.com/tu-usuario/solar-inventario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *inventory.ItemUseCase
	StatsUC    *stats.UseCase
	DispatchUC *dispatch.UseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
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

	// Catálogo de inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.StatsUC)
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Post("/", inventoryHandler.Create)
	invGroup.Get("/stats", inventoryHandler.Stats)
	invGroup.Get("/specs/motors", inventoryHandler.SpecsMotors)
	invGroup.Get("/specs/solar", inventoryHandler.SpecsSolar)
	invGroup.Get("/templates/csv", inventoryHandler.Template)
	invGroup.Get("/templates/excel", inventoryHandler.TemplateExcel)
	invGroup.Post("/bulk", inventoryHandler.BulkCreate)
	invGroup.Post("/import", inventoryHandler.Import)
	invGroup.Get("/:id", inventoryHandler.GetByID)
	invGroup.Put("/:id", inventoryHandler.Update)
	invGroup.Delete("/:id", RequireRole(entity.RoleAdmin), inventoryHandler.Delete)
	invGroup.Get("/:id/transactions", inventoryHandler.ListTransactions)
	invGroup.Post("/:id/transactions", inventoryHandler.RecordTransaction)

	// Despachos a beneficiarios (protegido)
	dispatches := protected.Group("/dispatches")
	dispatchHandler := NewDispatchHandler(deps.DispatchUC)
	dispatches.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), dispatchHandler.Create)
	dispatches.Get("/", dispatchHandler.ListByFarmer)
	dispatches.Get("/:id", dispatchHandler.GetByID)
	dispatches.Get("/:id/pdf", dispatchHandler.DeliveryNote)
}
