// Package store elige y abre el adaptador de documentos según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/billing-api/internal/application/billing"
	"github.com/jhoicas/billing-api/internal/domain/repository"
	"github.com/jhoicas/billing-api/internal/infrastructure/memory"
	infraMongo "github.com/jhoicas/billing-api/internal/infrastructure/mongo"
	"github.com/jhoicas/billing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/billing-api/pkg/config"
	"github.com/jhoicas/billing-api/pkg/logger"
)

// Store store abierto: repositorio, runner transaccional y cierre de la conexión.
type Store struct {
	Repo  repository.BillingDocumentRepository
	Tx    billing.DocumentTxRunner
	close func()
}

// Close libera la conexión. Es seguro llamarlo más de una vez.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}

// Open construye el store elegido por cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		dsn := cfg.DB.ConnectionString()
		if cfg.DB.AutoMigrate {
			if err := postgres.MigrateUp(dsn); err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Store{
			Repo:  postgres.NewBillingDocumentRepository(pool),
			Tx:    postgres.NewTxRunner(pool),
			close: pool.Close,
		}, nil

	case config.StoreMongo:
		client, db, err := infraMongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("conexión a MongoDB: %w", err)
		}
		repo := infraMongo.NewBillingDocumentRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Store{
			Repo:  repo,
			Tx:    billing.DirectRunner{Repo: repo},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("store en memoria: los documentos se pierden al reiniciar")
		repo := memory.NewBillingDocumentRepository()
		return &Store{Repo: repo, Tx: billing.DirectRunner{Repo: repo}}, nil

	default:
		return nil, fmt.Errorf("store %q no soportado", cfg.Store.Driver)
	}
}
