package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	_ "github.com/jhoicas/billing-api/docs"
	appanalytics "github.com/jhoicas/billing-api/internal/application/analytics"
	"github.com/jhoicas/billing-api/internal/application/auth"
	"github.com/jhoicas/billing-api/internal/application/billing"
	infrapdf "github.com/jhoicas/billing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/billing-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/billing-api/internal/infrastructure/store"
	"github.com/jhoicas/billing-api/internal/infrastructure/xmldoc"
	httpRouter "github.com/jhoicas/billing-api/internal/interfaces/http"
	"github.com/jhoicas/billing-api/pkg/config"
	"github.com/jhoicas/billing-api/pkg/logger"
)

// @title        Billing System API
// @version      1.0
// @description  CRUD de documentos de facturación con ítems, totales y estadísticas.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	// Montos como números JSON.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar store")
	}
	defer st.Close()
	repo := st.Repo

	documentUC := billing.NewDocumentUseCase(repo, billing.DocumentConfig{
		DefaultListLimit: cfg.Billing.DefaultListLimit,
		StrictStatus:     cfg.Billing.StrictStatus,
		SerializeWrites:  cfg.Billing.SerializeWrites,
		Logger:           log.Zerolog(),
	})
	exportUC := billing.NewExportUseCase(repo,
		infrapdf.NewMarotoPDFGenerator(language.LatinAmericanSpanish),
		xmldoc.NewExporter(),
		spreadsheet.NewExcelWriter(),
	)
	dashboardUC := appanalytics.NewDashboardUseCase(repo)
	authUC := auth.NewAuthUseCase(
		auth.ClientCredentials{ClientID: cfg.Auth.ClientID, SecretHash: cfg.Auth.ClientSecretHash},
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
	)
	if !authUC.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: API sin autenticación")
	}

	swaggerFile := cfg.HTTP.SwaggerFile
	if _, err := os.Stat(swaggerFile); swaggerFile != "" && err != nil {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		swaggerFile = ""
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		Store:        cfg.Store.Driver,
		AllowOrigins: cfg.HTTP.AllowOrigins,
		SwaggerFile:  swaggerFile,
	}, httpRouter.RouterDeps{
		DocumentUC:  documentUC,
		ExportUC:    exportUC,
		DashboardUC: dashboardUC,
		AuthUC:      authUC,
	}, log.Zerolog())

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
