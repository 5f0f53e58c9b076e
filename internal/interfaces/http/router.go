package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rochas-api/internal/application/auth"
	"github.com/jhoicas/rochas-api/internal/application/inventory"
	"github.com/jhoicas/rochas-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *usecase.CompanyUseCase
	VacancyUC  *usecase.VacancyUseCase
	RockUC     *inventory.RockUseCase
	MovementUC *inventory.MovementUseCase
	StockUC    *inventory.StockQueryUseCase
	Reconciler *inventory.Reconciler
	Resolver   ProfileResolver
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	stockHandler := NewStockHandler(deps.StockUC, deps.Reconciler)
	vacancyHandler := NewVacancyHandler(deps.VacancyUC)

	// Públicas
	api.Post("/auth/login", authHandler.Login)
	api.Get("/catalog", stockHandler.Catalog)
	api.Get("/vacancies", vacancyHandler.List)

	// Rutas protegidas (requieren Bearer Token + perfil)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Resolver))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/users", RequireAdmin(), authHandler.ProvisionUser)

	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", RequireAdmin(), companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	rocks := protected.Group("/rocks")
	inventoryHandler := NewInventoryHandler(deps.RockUC, deps.MovementUC)
	rocks.Post("/", inventoryHandler.RegisterRock)
	rocks.Get("/duplicates", inventoryHandler.Duplicates)
	rocks.Get("/:id", inventoryHandler.GetRock)
	rocks.Delete("/:id", RequireAdmin(), inventoryHandler.DeleteRock)
	rocks.Post("/:id/movements", inventoryHandler.RecordMovement)
	rocks.Get("/:id/movements", inventoryHandler.History)

	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Get("/report.pdf", stockHandler.Report)

	protected.Post("/vacancies", vacancyHandler.Create)
	protected.Delete("/vacancies/:id", vacancyHandler.Delete)

	protected.Post("/admin/reconcile", RequireAdmin(), stockHandler.Reconcile)
}
