package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billing-api/internal/domain"
	"github.com/jhoicas/billing-api/internal/domain/entity"
	"github.com/jhoicas/billing-api/internal/domain/repository"
	"github.com/jhoicas/billing-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers puros (sin base de datos)
// ──────────────────────────────────────────────────────────────────────────────

func TestWhereClause(t *testing.T) {
	where, args := whereClause(repository.BillingDocumentFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = whereClause(repository.BillingDocumentFilter{
		Status:      entity.StatusCompleted,
		BillingType: entity.BillingTypeReceipt,
	})
	assert.Equal(t, " WHERE status = $1 AND billing_type = $2", where)
	assert.Equal(t, []any{"Completed", "Receipt"}, args)

	where, args = whereClause(repository.BillingDocumentFilter{DocumentNumber: "RCT-20240510093000"})
	assert.Equal(t, " WHERE document_number = $1", where)
	assert.Equal(t, []any{"RCT-20240510093000"}, args)
}

func TestColumnValue_TiposEsperados(t *testing.T) {
	v, err := columnValue(repository.FieldStatus, entity.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, "Pending", v)

	var cleared *string
	v, err = columnValue(repository.FieldNotes, cleared)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = columnValue(repository.FieldStatus, "Pending")
	assert.Error(t, err, "string sin tipar no es un DocumentStatus")

	_, err = columnValue("id", "x")
	assert.Error(t, err, "campo fuera de la lista blanca")
}

func TestEncodeDecodeItems(t *testing.T) {
	desc := "detalle"
	items := []entity.BillingItem{{
		ID: "it-1", Name: "Soporte", Description: &desc, Category: entity.CategoryService,
		Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.RequireFromString("20.10"),
		TaxRate: decimal.NewFromInt(19), TotalPrice: decimal.RequireFromString("30.15"),
		TaxAmount: decimal.RequireFromString("5.7285"),
	}}

	raw, err := encodeItems(items)
	require.NoError(t, err)
	back, err := decodeItems(raw)
	require.NoError(t, err)

	require.Len(t, back, 1)
	assert.Equal(t, "Soporte", back[0].Name)
	assert.Equal(t, entity.CategoryService, back[0].Category)
	assert.True(t, back[0].TaxAmount.Equal(items[0].TaxAmount))
	require.NotNil(t, back[0].Description)

	empty, err := decodeItems(nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMigrationURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", MigrationURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", MigrationURL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://h/db", MigrationURL("pgx5://h/db"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración (requiere TEST_DATABASE_URL)
// ──────────────────────────────────────────────────────────────────────────────

func TestBillingDocumentRepo_Integracion(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	require.NoError(t, MigrateUp(dsn))
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	defer pool.Close()
	repo := NewBillingDocumentRepository(pool)

	now := time.Now().UTC().Truncate(time.Millisecond)
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	id := uuid.New().String()
	doc := &entity.BillingDocument{
		ID: id, DocumentNumber: "TEST-" + id, BillingType: entity.BillingTypeReceipt,
		BillingDate: date, Items: []entity.BillingItem{}, Status: entity.StatusDraft,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Insert(ctx, doc))
	defer func() { _, _ = repo.Delete(ctx, id) }()

	sameNumber := doc.Clone()
	sameNumber.ID = uuid.New().String()
	require.NoError(t, repo.Insert(ctx, sameNumber), "el número de documento no es único")
	defer func() { _, _ = repo.Delete(ctx, sameNumber.ID) }()

	n, err := repo.Count(ctx, repository.BillingDocumentFilter{DocumentNumber: doc.DocumentNumber})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.ErrorIs(t, repo.Insert(ctx, doc), domain.ErrDuplicate)

	notes := "nota"
	require.NoError(t, repo.UpdateFields(ctx, id, repository.Fields{
		repository.FieldNotes:       &notes,
		repository.FieldStatus:      entity.StatusCompleted,
		repository.FieldTotalAmount: decimal.RequireFromString("110.5"),
	}))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "nota", *got.Notes)
	assert.True(t, got.BillingDate.Equal(date))
	assert.Empty(t, got.Items)

	counts, err := repo.CountBy(ctx, repository.FieldStatus)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counts["Completed"], int64(1))

	missing, err := repo.FindByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTxRunner_RollbackAlFallar(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	require.NoError(t, MigrateUp(dsn))
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	defer pool.Close()

	now := time.Now().UTC().Truncate(time.Millisecond)
	id := uuid.New().String()
	boom := errors.New("falla después de insertar")

	err = NewTxRunner(pool).RunDocuments(ctx, func(repo repository.BillingDocumentRepository) error {
		require.NoError(t, repo.Insert(ctx, &entity.BillingDocument{
			ID: id, DocumentNumber: "TX-" + id, BillingType: entity.BillingTypeReceipt,
			BillingDate: now, Items: []entity.BillingItem{}, Status: entity.StatusDraft,
			CreatedAt: now, UpdatedAt: now,
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewBillingDocumentRepository(pool).FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got, "el insert debe revertirse")
}
