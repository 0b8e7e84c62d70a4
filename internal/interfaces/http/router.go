package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/service-stock-api/internal/application/auth"
	"github.com/jhoicas/service-stock-api/internal/application/ledger"
	"github.com/jhoicas/service-stock-api/internal/application/usecase"
	"github.com/jhoicas/service-stock-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	HolderUC     *usecase.HolderUseCase
	UserUC       *usecase.UserUseCase
	CatalogUC    *usecase.CatalogUseCase
	ReportUC     *usecase.ReportUseCase
	LedgerUC     *ledger.LedgerUseCase
	TransferUC   *ledger.TransferUseCase
	JobUC        *ledger.JobUseCase
	JWTSecret    string
	RefreshTTL   time.Duration
	SecureCookie bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	admin := RequireRole(entity.RoleAdmin)
	office := RequireRole(entity.RoleAdmin, entity.RoleCSC)

	// Auth (público salvo el alta de usuarios)
	authHandler := NewAuthHandler(deps.AuthUC, deps.RefreshTTL, deps.SecureCookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), admin, authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	holderHandler := NewHolderHandler(deps.HolderUC)
	holders := protected.Group("/holders")
	holders.Get("/", holderHandler.List)
	holders.Post("/", admin, holderHandler.Create)
	holders.Get("/:id", holderHandler.GetByID)
	holders.Put("/:id", admin, holderHandler.Update)

	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/me", userHandler.Me)
	users.Get("/", office, userHandler.List)

	// Catálogo: lectura para todos, escritura solo admin
	catalog := NewCatalogHandler(deps.CatalogUC)
	categories := protected.Group("/categories")
	categories.Get("/", catalog.ListCategories)
	categories.Post("/", admin, catalog.CreateCategory)
	categories.Put("/:id", admin, catalog.UpdateCategory)
	categories.Delete("/:id", admin, catalog.DeleteCategory)

	models := protected.Group("/models")
	models.Get("/", catalog.ListModels)
	models.Post("/", admin, catalog.CreateModel)
	models.Put("/:id", admin, catalog.UpdateModel)
	models.Delete("/:id", admin, catalog.DeleteModel)

	items := protected.Group("/items")
	items.Get("/", catalog.ListItems)
	items.Post("/", admin, catalog.CreateItem)
	items.Put("/:id", admin, catalog.UpdateItem)
	items.Delete("/:id", admin, catalog.DeleteItem)

	skus := protected.Group("/sku-codes")
	skus.Get("/", catalog.ListSKUCodes)
	skus.Post("/", admin, catalog.CreateSKUCode)
	skus.Get("/:id", catalog.GetSKUCode)
	skus.Put("/:id", admin, catalog.UpdateSKUCode)
	skus.Delete("/:id", admin, catalog.DeleteSKUCode)

	// Stock; las rutas fijas van antes de /:id
	stockHandler := NewStockHandler(deps.LedgerUC, deps.TransferUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.Positions)
	stock.Get("/report", reportHandler.Stock)
	stock.Get("/transfers", stockHandler.ListTransfers)
	stock.Post("/entry", office, stockHandler.Entry)
	stock.Post("/entry/import", office, stockHandler.ImportEntry)
	stock.Post("/move", stockHandler.Move)
	stock.Post("/adjust", admin, stockHandler.Adjust)
	stock.Post("/transfer", stockHandler.CreateTransfer(entity.KindTransfer))
	stock.Post("/return", stockHandler.CreateTransfer(entity.KindReturn))
	stock.Post("/faulty", stockHandler.CreateTransfer(entity.KindFaulty))
	stock.Post("/defective", stockHandler.CreateTransfer(entity.KindDefective))
	stock.Get("/:id", stockHandler.GetTransfer)
	stock.Put("/:id", stockHandler.ResolveTransfer)

	engineer := protected.Group("/engineer-stock")
	engineer.Get("/", stockHandler.EngineerPositions)
	engineer.Get("/transfers", stockHandler.EngineerTransfers)
	engineer.Post("/transfer", stockHandler.CreateTransfer(entity.KindEngineerIssue))
	engineer.Post("/return", stockHandler.CreateTransfer(entity.KindEngineerReturn))
	engineer.Post("/faulty", stockHandler.CreateTransfer(entity.KindEngineerFaulty))
	engineer.Get("/:id", stockHandler.GetTransfer)
	engineer.Put("/:id", stockHandler.ResolveTransfer)

	jobHandler := NewJobHandler(deps.JobUC)
	jobs := protected.Group("/job")
	jobs.Get("/", jobHandler.List)
	jobs.Get("/report", reportHandler.Jobs)
	jobs.Post("/", jobHandler.Submit)
	jobs.Get("/:id", jobHandler.GetByID)

	protected.Get("/transfer/report", reportHandler.Transfers)
	protected.Get("/ledger/report", reportHandler.Ledger)
}
