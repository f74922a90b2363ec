package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-prep/internal/application/catalog"
	"github.com/jhoicas/gestion-prep/internal/application/movement"
	"github.com/jhoicas/gestion-prep/internal/application/report"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC    *movement.MovementUseCase
	ArticleUC     *catalog.ArticleUseCase
	LowStockUC    *catalog.LowStockUseCase
	ReferentialUC *catalog.ReferentialUseCase
	MovementPDF   *report.PDFUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	validators := RequireRole(entity.RoleAdmin, entity.RoleMagasinier)

	// BMM
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	pdfHandler := NewPDFHandler(deps.MovementPDF)
	movements.Post("/bulk/validate", validators, movementHandler.BulkValidate)
	movements.Post("/bulk/cancel", movementHandler.BulkCancel)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)
	movements.Post("/:id/lines", movementHandler.AddLine)
	movements.Put("/:id/lines/:lineId", movementHandler.UpdateLine)
	movements.Patch("/:id/lines/:lineId/correction", validators, movementHandler.CorrectLine)
	movements.Delete("/:id/lines/:lineId", movementHandler.DeleteLine)
	movements.Post("/:id/validate", validators, movementHandler.Validate)
	movements.Post("/:id/cancel", movementHandler.Cancel)
	movements.Get("/:id/history", movementHandler.History)
	movements.Get("/:id/pdf", pdfHandler.Download)

	// Artículos
	articles := api.Group("/articles")
	articleHandler := NewArticleHandler(deps.ArticleUC, deps.LowStockUC)
	articles.Get("/low-stock", articleHandler.LowStock)
	articles.Post("/", articleHandler.Create)
	articles.Get("/", articleHandler.List)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Put("/:id", articleHandler.Update)
	articles.Delete("/:id", articleHandler.Delete)

	// Referencial
	ref := NewReferentialHandler(deps.ReferentialUC)
	api.Post("/sites", ref.CreateSite)
	api.Get("/sites", ref.ListSites)
	api.Post("/units", ref.CreateUnit)
	api.Get("/units", ref.ListUnits)
	api.Post("/trains", ref.CreateTrain)
	api.Get("/trains", ref.ListTrains)
	api.Post("/equipements", ref.CreateEquipment)
	api.Get("/equipements", ref.ListEquipment)
	api.Get("/equipements/:id", ref.GetEquipment)
	api.Post("/stocks", ref.CreateStock)
	api.Get("/stocks", ref.ListStocks)
	api.Post("/categories", ref.CreateCategory)
	api.Get("/categories", ref.ListCategories)
	api.Post("/types-platinage", ref.CreatePlatinageType)
	api.Get("/types-platinage", ref.ListPlatinageTypes)
	api.Post("/platinages", ref.CreatePlatinage)
	api.Get("/platinages", ref.ListPlatinages)
	api.Get("/platinages/:id", ref.GetPlatinage)
	api.Post("/phases", ref.CreatePhase)
	api.Get("/phases", ref.ListPhases)
	api.Get("/phases/:id", ref.GetPhase)
}
