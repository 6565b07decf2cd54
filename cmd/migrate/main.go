// migrate administra el esquema del store de documentos.
//
// Uso: go run ./cmd/migrate [up|down|steps N|version]
// Con STORE_DRIVER=mongo solo "up" tiene efecto: crea los índices de la colección.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	infraMongo "github.com/jhoicas/billing-api/internal/infrastructure/mongo"
	"github.com/jhoicas/billing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/billing-api/pkg/config"
	"github.com/jhoicas/billing-api/pkg/logger"
)

const usage = "Uso: migrate [up|down|steps N|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	cmd := os.Args[1]

	switch cfg.Store.Driver {
	case config.StoreMongo:
		if cmd != "up" {
			log.Fatal().Str("cmd", cmd).Msg("MongoDB solo admite up")
		}
		ctx := context.Background()
		client, db, err := infraMongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB")
		}
		defer func() { _ = client.Disconnect(ctx) }()
		if err := infraMongo.NewBillingDocumentRepository(db).Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear índices")
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("índices creados")
		return
	case config.StorePostgres:
	default:
		log.Fatal().Str("driver", cfg.Store.Driver).Msg("el store no tiene esquema que migrar")
	}

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() { _, _ = m.Close() }()

	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration up")
		}
		log.Info().Msg("migraciones aplicadas")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration down")
		}
		log.Info().Msg("migraciones revertidas")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requiere un número")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("argumento de steps inválido")
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration steps")
		}
		log.Info().Int("steps", n).Msg("pasos aplicados")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("leer versión")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("comando desconocido: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}
