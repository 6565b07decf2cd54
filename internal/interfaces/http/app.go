package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/billing-api/internal/application/dto"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name         string
	Store        string   // driver activo, reportado en /health
	AllowOrigins []string // vacío = "*"
	SwaggerFile  string   // vacío = sin /docs
}

// NewApp arma la aplicación Fiber con middlewares, /health, /docs y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(AccessLog(logger))

	origins := "*"
	if len(cfg.AllowOrigins) > 0 {
		origins = strings.Join(cfg.AllowOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: HeaderContentDigest + ", Content-Disposition",
	}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Billing System API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Service: cfg.Name, Store: cfg.Store})
	})

	Router(app, deps)
	return app
}
