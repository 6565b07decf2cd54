// import carga documentos de facturación desde un libro XLSX (el mismo formato que
// GET /api/billing-documents/export.xlsx). Cada documento se crea con un número nuevo;
// los totales se recalculan a partir de los ítems.
//
// Uso: go run ./cmd/import documentos.xlsx
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/billing-api/internal/infrastructure/store"
	"github.com/jhoicas/billing-api/pkg/config"
	"github.com/jhoicas/billing-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Uso: import <archivo.xlsx>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import"})

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("abrir archivo")
	}
	docs, err := spreadsheet.ReadDocuments(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("leer libro")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar store")
	}
	defer st.Close()

	// Dos documentos del mismo tipo importados en el mismo segundo comparten número;
	// el caso de uso lo registra como aviso.
	importer := newImporter(st.Tx, billing.DocumentConfig{
		DefaultListLimit: cfg.Billing.DefaultListLimit,
		StrictStatus:     cfg.Billing.StrictStatus,
		Logger:           log.Zerolog(),
	})
	report := importer.run(ctx, docs)

	for _, e := range report.Errors {
		log.Error().Str("ref", e.Ref).Int("row", e.Row).Err(e.Err).Msg("documento no importado")
	}
	log.Info().
		Int("leídos", len(docs)).
		Int("creados", report.Created).
		Int("errores", len(report.Errors)).
		Msg("importación terminada")
	if len(report.Errors) > 0 {
		st.Close()
		os.Exit(2)
	}
}
