package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/billing-api/internal/application/analytics"
	"github.com/jhoicas/billing-api/internal/application/auth"
	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DocumentUC  *billing.DocumentUseCase
	ExportUC    *billing.ExportUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(dto.MessageResponse{Message: "Billing System API"})
	})

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Rutas protegidas cuando JWT_SECRET está configurado
	protected := api.Group("", AuthMiddleware(deps.AuthUC))

	docs := protected.Group("/billing-documents")
	documentHandler := NewBillingDocumentHandler(deps.DocumentUC)
	exportHandler := NewExportHandler(deps.ExportUC)

	// export.xlsx se registra antes de /:id para que no lo capture como id.
	docs.Get("/export.xlsx", exportHandler.DownloadSpreadsheet)

	docs.Post("/", documentHandler.Create)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.Get)
	docs.Put("/:id", documentHandler.Update)
	docs.Delete("/:id", documentHandler.Delete)
	docs.Get("/:id/pdf", exportHandler.DownloadPDF)
	docs.Get("/:id/xml", exportHandler.DownloadXML)

	docs.Post("/:id/items", documentHandler.AddItem)
	docs.Put("/:id/items/:item_id", documentHandler.UpdateItem)
	docs.Delete("/:id/items/:item_id", documentHandler.RemoveItem)

	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/stats", dashboardHandler.GetStats)
}
